// Package middleware wires the exception notifier into HTTP servers: gin and
// net/http handlers that recover panics and report them, request attached.
package middleware
