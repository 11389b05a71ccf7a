// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/telekom/exception-notifier/pkg/config"
	"github.com/telekom/exception-notifier/pkg/notifier"
	"github.com/telekom/exception-notifier/pkg/request"
	"github.com/telekom/exception-notifier/pkg/version"
)

const (
	defaultTestMessage = "exception-notifier test report"
	testRequestURL     = "http://localhost/send-test?source=cli"
)

func NewSendTestCommand() *cobra.Command {
	var (
		message     string
		withRequest bool
	)

	cmd := &cobra.Command{
		Use:   "send-test",
		Short: "Send a sample exception report using the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			log := rt.Logger()

			cfg, err := rt.loadConfiguration()
			if err != nil {
				return err
			}
			if err := notifier.ConfigureWith(cfg, notifier.WithLogger(log)); err != nil {
				return err
			}
			defer notifier.Destroy()

			var req request.Request
			if withRequest {
				r, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, testRequestURL, nil)
				if err != nil {
					return err
				}
				r.Header.Set("User-Agent", version.UserAgent())
				req = request.FromHTTP(r)
			}

			sample := errors.Wrap(errors.New("sample failure raised by send-test"), "exception-notifier self test")
			if err := notifier.HandleException(message, sample, req); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(rt.Writer(), "Test report sent to %s via %s:%d\n",
				strings.Join(cfg.Recipients, ", "), cfg.Sender.GetHost(), cfg.Sender.GetPort())
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", defaultTestMessage, "Message placed in the report subject")
	cmd.Flags().BoolVar(&withRequest, "with-request", true, "Attach a synthetic HTTP request to the report")

	return cmd
}

// loadConfiguration reads the configuration file and builds the notifier
// configuration from it, honouring a sender override.
func (rt *runtimeState) loadConfiguration() (notifier.Configuration, error) {
	src, err := config.Load(rt.configPath)
	if err != nil {
		return notifier.Configuration{}, fmt.Errorf("%w: %w", notifier.ErrConfiguration, err)
	}
	cfg, err := notifier.ConfigurationFromSource(src, notifier.WithLogger(rt.Logger()))
	if err != nil {
		return notifier.Configuration{}, err
	}
	if rt.sender != nil {
		cfg.Sender = rt.sender
	}
	return cfg, nil
}
