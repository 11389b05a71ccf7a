// Package cli implements the exception-notifier command line: sending a test
// report, validating a configuration file, serving a demo endpoint whose
// panics are reported, and printing build information.
package cli
