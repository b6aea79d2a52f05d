package model

import "time"

// OTP purposes accepted by the send-otp endpoint.
const (
	OTPSignup         = "signup"
	OTPForgotPassword = "forgot-password"
)

// OtpRecord models a row in the `otps` table: a short-lived numeric code
// proving control of Email.  It is not a foreign key to users; signup codes
// exist before the account does.
type OtpRecord struct {
	ID        uint64
	Email     string
	Code      string
	Purpose   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the record is no longer usable at now.
func (o OtpRecord) Expired(now time.Time) bool { return !now.Before(o.ExpiresAt) }
