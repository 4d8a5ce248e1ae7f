package testutil

import "context"

// TestComponent is a test double with a lifecycle. MockAdapter and Server
// both implement it so tests can manage them uniformly through T.
type TestComponent interface {
	// Name identifies the component in failure messages.
	Name() string

	// Start prepares the component for use.
	Start(ctx context.Context) error

	// Stop releases the component's resources.
	Stop(ctx context.Context) error

	// Reset restores the component to its initial state.
	// This is typically used between test cases to ensure test isolation.
	Reset(ctx context.Context) error
}
