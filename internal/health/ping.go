package health

import "context"

// Pinger is implemented by components that expose a specialized health
// probe. Ping must return nil when the component is healthy.
type Pinger interface {
	Ping(ctx context.Context) error
}
