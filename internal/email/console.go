package email

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// ConsoleSender prints login links instead of mailing them. Development only.
type ConsoleSender struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleSender(out io.Writer) *ConsoleSender {
	return &ConsoleSender{out: out}
}

func (s *ConsoleSender) SendMagicLink(_ context.Context, msg MagicLinkMessage) error {
	rule := strings.Repeat("=", 80)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nMAGIC LINK EMAIL (Development Mode)\n%s\n", rule, rule)
	fmt.Fprintf(&b, "To: %s\n", msg.To)
	if msg.Username != "" {
		fmt.Fprintf(&b, "Username: %s\n", msg.Username)
	}
	fmt.Fprintf(&b, "\nMagic Link: %s\n\nClick the link above to log in.\n%s\n\n", msg.Link, rule)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.out, b.String()); err != nil {
		return fmt.Errorf("failed to write magic link to console: %w", err)
	}

	slog.Debug("magic link printed to console", "to", msg.To)
	return nil
}
