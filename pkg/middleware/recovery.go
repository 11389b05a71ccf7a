// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/telekom/exception-notifier/pkg/metrics"
	"github.com/telekom/exception-notifier/pkg/notifier"
	"github.com/telekom/exception-notifier/pkg/request"
	"github.com/telekom/exception-notifier/pkg/system"
)

// Reporter sends an exception report. *notifier.Notifier implements it.
type Reporter interface {
	HandleException(message string, err error, req request.Request) error
}

type processNotifier struct{}

func (processNotifier) HandleException(message string, err error, req request.Request) error {
	return notifier.HandleException(message, err, req)
}

// ProcessNotifier reports through the process-wide notifier installed with
// notifier.Configure.
var ProcessNotifier Reporter = processNotifier{}

const unmatchedRoute = "unmatched"

// GinRecovery recovers handler panics, reports them with the request
// attached and answers 500. With reportErrors set, requests that finish with
// a 5xx status and errors attached via c.Error are reported as well. A nil
// reporter falls back to ProcessNotifier.
func GinRecovery(reporter Reporter, log *zap.SugaredLogger, reportErrors bool) gin.HandlerFunc {
	if reporter == nil {
		reporter = ProcessNotifier
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log = log.Named("recovery")

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			route := c.FullPath()
			if route == "" {
				route = unmatchedRoute
			}
			metrics.PanicsRecovered.WithLabelValues(route).Inc()

			reqLog := system.EnrichReqLoggerWithUser(c, system.GetReqLogger(c, log))
			message := fmt.Sprintf("panic serving %s %s", c.Request.Method, route)
			reqLog.Errorw("Recovered from panic", "route", route, "panic", rec)
			report(reporter, reqLog, message, panicError(rec), request.FromGin(c))
			c.AbortWithStatus(http.StatusInternalServerError)
		}()

		c.Next()

		if !reportErrors || len(c.Errors) == 0 || c.Writer.Status() < http.StatusInternalServerError {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		message := fmt.Sprintf("%s %s failed with status %d", c.Request.Method, route, c.Writer.Status())
		report(reporter, system.GetReqLogger(c, log), message, c.Errors.Last().Err, request.FromGin(c))
	}
}

// Recover is the net/http variant of GinRecovery.
func Recover(reporter Reporter, log *zap.SugaredLogger, opts ...request.HTTPOption) func(http.Handler) http.Handler {
	if reporter == nil {
		reporter = ProcessNotifier
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log = log.Named("recovery")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				metrics.PanicsRecovered.WithLabelValues(unmatchedRoute).Inc()

				message := fmt.Sprintf("panic serving %s %s", r.Method, r.URL.Path)
				log.Errorw("Recovered from panic", "path", r.URL.Path, "panic", rec)
				report(reporter, log, message, panicError(rec), request.FromHTTP(r, opts...))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func report(reporter Reporter, log *zap.SugaredLogger, message string, err error, req request.Request) {
	if rerr := reporter.HandleException(message, err, req); rerr != nil {
		log.Errorw("Failed to send exception report", "message", message, "error", rerr)
	}
}

// panicError turns a recovered value into an error carrying the stack of
// the panicking goroutine.
func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return errors.WithStack(err)
	}
	return errors.Errorf("panic: %v", rec)
}
