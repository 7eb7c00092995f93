package queue

import "context"

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, event any, reqID string) error
	Close() error
}

// Noop drops every event; used in tests and when no broker is configured.
type Noop struct{}

func NewNoop() Publisher { return Noop{} }

func (Noop) Publish(context.Context, string, string, any, string) error { return nil }
func (Noop) Close() error                                               { return nil }
