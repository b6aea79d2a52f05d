package model

import "time"

type Testimonial struct {
	ID         uint64    `json:"id"`
	ClientName string    `json:"clientName"`
	Company    string    `json:"company"`
	Quote      string    `json:"quote"`
	Rating     int       `json:"rating"`
	Avatar     string    `json:"avatar"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Enquiry is a message left through the public contact form.
type Enquiry struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
