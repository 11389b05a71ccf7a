// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telekom/exception-notifier/pkg/config"
	"github.com/telekom/exception-notifier/pkg/mail"
)

type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
	Debug        bool

	// Logger replaces the logger built from Debug.
	Logger *zap.Logger
	// Sender replaces the SMTP sender built from the configuration file.
	Sender mail.Sender
}

type runtimeState struct {
	configPath string
	debug      bool
	writer     io.Writer
	log        *zap.Logger
	sender     mail.Sender
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   getEnvString("EXCEPTION_NOTIFIER_CONFIG", config.DefaultConfigPath),
		OutputWriter: os.Stdout,
		Debug:        getEnvBool("EXCEPTION_NOTIFIER_DEBUG", false),
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{
		configPath: cfg.ConfigPath,
		debug:      cfg.Debug,
		writer:     cfg.OutputWriter,
		log:        cfg.Logger,
		sender:     cfg.Sender,
	}

	root := &cobra.Command{
		Use:           "exception-notifier",
		Short:         "Send exception reports by email",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = cmd.OutOrStdout()
			}
			if rt.configPath == "" {
				rt.configPath = config.DefaultConfigPath
			}
			if rt.log == nil {
				log, err := SetupLogger(rt.debug)
				if err != nil {
					return err
				}
				rt.log = log
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to the notifier configuration (.properties, .yaml or .yml)")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", rt.debug, "Enable debug level logging")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewSendTestCommand(),
		NewValidateCommand(),
		NewDemoCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	if cmd.Context() == nil {
		return nil, errors.New("runtime not initialized")
	}
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) Logger() *zap.SugaredLogger {
	if rt.log == nil {
		return zap.NewNop().Sugar()
	}
	return rt.log.Sugar()
}

// getEnvString returns the value of an environment variable or defaultVal if it is not set.
func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvBool returns the value of an environment variable as a bool, or the provided default if not set.
// Valid true values are "true", "1", "yes" (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}
