// Package kit holds the transport-neutral endpoint plumbing shared by
// the HTTP and MCP surfaces: the Endpoint signature, middleware
// chaining, and request-scoped context values.
package kit

import "context"

// Endpoint is a transport-neutral operation: typed request in, typed
// response out. Transports decode into it and encode out of it.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first one listed is outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
