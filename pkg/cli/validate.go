package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigSummary is the validated configuration with credentials left out.
type ConfigSummary struct {
	ConfigPath    string   `json:"configPath" yaml:"configPath"`
	MailHost      string   `json:"mailHost" yaml:"mailHost"`
	MailPort      int      `json:"mailPort" yaml:"mailPort"`
	SubjectPrefix string   `json:"subjectPrefix" yaml:"subjectPrefix"`
	Recipients    []string `json:"recipients" yaml:"recipients"`
	From          string   `json:"from" yaml:"from"`
	MaxBodyBytes  int64    `json:"maxBodyBytes,omitempty" yaml:"maxBodyBytes,omitempty"`
}

func NewValidateCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the configuration file defines every required key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			cfg, err := rt.loadConfiguration()
			if err != nil {
				return err
			}

			summary := ConfigSummary{
				ConfigPath:    rt.configPath,
				MailHost:      cfg.Sender.GetHost(),
				MailPort:      cfg.Sender.GetPort(),
				SubjectPrefix: cfg.SubjectPrefix,
				Recipients:    cfg.Recipients,
				From:          cfg.From,
				MaxBodyBytes:  cfg.MaxBodyBytes,
			}

			writer := rt.Writer()
			switch outputFormat {
			case "json":
				encoder := json.NewEncoder(writer)
				encoder.SetIndent("", "  ")
				return encoder.Encode(summary)
			case "yaml":
				data, err := yaml.Marshal(summary)
				if err != nil {
					return fmt.Errorf("failed to marshal to YAML: %w", err)
				}
				_, _ = fmt.Fprint(writer, string(data))
				return nil
			case "":
				_, _ = fmt.Fprintf(writer, "%s is valid\n", summary.ConfigPath)
				_, _ = fmt.Fprintf(writer, "  mail server:    %s:%d\n", summary.MailHost, summary.MailPort)
				_, _ = fmt.Fprintf(writer, "  subject prefix: %s\n", summary.SubjectPrefix)
				_, _ = fmt.Fprintf(writer, "  recipients:     %s\n", strings.Join(summary.Recipients, ", "))
				_, _ = fmt.Fprintf(writer, "  from:           %s\n", summary.From)
				return nil
			default:
				return fmt.Errorf("unsupported output format %q", outputFormat)
			}
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: json, yaml")

	return cmd
}
