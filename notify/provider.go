// Package notify delivers alert emails. In-app notifications are plain DB
// rows; only the email channel needs a transport.
package notify

import "context"

// Provider is the interface for email delivery implementations.
type Provider interface {
	Send(ctx context.Context, to, subject, body string) error
}
