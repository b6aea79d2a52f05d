package mailer

import (
	"fmt"
	"time"
)

// OTPMessage is the fixed template used for verification codes.
func OTPMessage(email, code, purpose string, ttl time.Duration) Message {
	subject := "Your BrixxSpace verification code"
	action := "complete your registration"
	if purpose == "forgot-password" {
		subject = "Your BrixxSpace password reset code"
		action = "reset your password"
	}
	body := fmt.Sprintf(
		"Hello,\n\nUse the code %s to %s.\nThe code is valid for %d minutes. Do not share it with anyone.\n\nBrixxSpace",
		code, action, int(ttl.Minutes()))
	return Message{Email: email, Subject: subject, Body: body}
}

// WelcomeMessage greets a newly registered user.
func WelcomeMessage(email, name string) Message {
	body := fmt.Sprintf(
		"Dear %s,\n\nWelcome to BrixxSpace! Your account has been created.\nYou can now follow your projects and reach our team from your dashboard.\n\nBrixxSpace",
		name)
	return Message{Email: email, Subject: "Welcome to BrixxSpace", Body: body}
}
