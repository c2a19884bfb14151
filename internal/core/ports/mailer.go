package ports

import "context"

// Mailer is the external mail transport. Implementations surface provider
// errors as a plain error; callers decide whether that is fatal.
type Mailer interface {
	Deliver(ctx context.Context, from, to, subject, textBody, htmlBody string) error
}
