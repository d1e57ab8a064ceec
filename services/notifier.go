package services

import (
	"context"
	"log"
	"time"
)

// Notifier delivers out-of-band messages to users.
type Notifier interface {
	SendWelcome(ctx context.Context, email, firstName string) error
}

type NoopNotifier struct{}

func (NoopNotifier) SendWelcome(context.Context, string, string) error { return nil }

const notifyTimeout = 15 * time.Second

// notifyWelcome runs detached from the request; failures are only logged.
func notifyWelcome(n Notifier, email, firstName string) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.SendWelcome(ctx, email, firstName); err != nil {
			log.Printf("welcome email to %s failed: %v", email, err)
			return
		}
		log.Printf("welcome email sent to %s", email)
	}()
}
