package ports

import "context"

// MailMessage is a single outbound email.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends transactional email. Delivery is awaited within the request
// lifecycle for OTP and reset mails so failures can be compensated.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailThrottle rate-limits outbound mail per recipient address.
type MailThrottle interface {
	// Allow reports whether a mail may be sent to email now, and reserves the
	// slot when it may.
	Allow(ctx context.Context, email string) (bool, error)
}
