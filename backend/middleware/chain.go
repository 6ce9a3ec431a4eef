// ABOUTME: Middleware type and composition for the API's handler stack
// ABOUTME: Chain wraps a handler so the first middleware listed sees the request first

package middleware

import "net/http"

// Middleware wraps a handler with extra behavior.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Chain wraps h in mws. Chain(h, LogRequest, cors) is LogRequest(cors(h)).
func Chain(h http.HandlerFunc, mws ...Middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
