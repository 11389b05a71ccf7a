// Package metrics defines Prometheus metrics for the exception notifier,
// covering report composition, mail delivery, and recovered panics.
package metrics
