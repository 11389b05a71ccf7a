// Package request captures the in-flight request attached to an exception
// report. It defines the Request capability (with an optional HTTP subset),
// adapters for net/http and gin, and the serializer producing the ordered
// label/value snapshot rendered into report bodies.
package request
