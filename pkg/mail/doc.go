// Package mail provides the mail dispatch capability used by the exception
// notifier: a plain-text Message and a single-attempt SMTP Sender built on
// gomail.
package mail
