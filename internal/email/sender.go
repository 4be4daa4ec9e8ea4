// Package email delivers magic-link login emails.
package email

import (
	"context"
	"fmt"
	"os"

	"github.com/polito-log/backend/internal/config"
)

// MagicLinkMessage is one login email. Username is empty when the recipient
// has no account yet.
type MagicLinkMessage struct {
	To       string
	Link     string
	Username string
}

// Sender delivers a login link. A non-nil error means the link was not delivered.
type Sender interface {
	SendMagicLink(ctx context.Context, msg MagicLinkMessage) error
}

// New picks the Sender configured by EMAIL_BACKEND.
func New(cfg *config.Config) (Sender, error) {
	switch cfg.EmailBackend {
	case config.EmailBackendConsole, "":
		return NewConsoleSender(os.Stdout), nil
	case config.EmailBackendSMTP:
		return NewSMTPSender(cfg), nil
	default:
		return nil, fmt.Errorf("unknown email backend %q", cfg.EmailBackend)
	}
}
