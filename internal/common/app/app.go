package app

import (
	"context"
	"os/signal"
	"syscall"
)

// CreateContextWithShutdown returns a context that reports done once a
// SIGINT or SIGTERM is received.
func CreateContextWithShutdown() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}
