// Package notifier sends an email report whenever an application error
// occurs. A report carries the error's type, message and cause chain, and
// optionally a snapshot of the request being served when the error occurred.
//
// Applications either construct a *Notifier with New and pass it around, or
// install a process-wide notifier once:
//
//	if err := notifier.ConfigureFromFile("notifier.properties"); err != nil {
//		log.Fatal(err)
//	}
//	...
//	if err := notifier.HandleException("checkout failed", err, request.FromHTTP(r)); err != nil {
//		log.Printf("exception report lost: %v", err)
//	}
//
// Delivery is synchronous and single-attempt: a failed send is returned to
// the caller as *TransportError and the report is lost.
package notifier
