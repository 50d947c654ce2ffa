package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command, which prints the resolved
// configuration.
func NewConfigCommand(globalOpts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printConfig(cmd.OutOrStdout(), globalOpts.config)
		},
	}
}

func printConfig(w io.Writer, cfg Config) error {
	_, err := fmt.Fprintf(w,
		"host: %s\nheaders: %s\nquery: %s\ntimeout: %s\nuser_agent: %s\nrequest_id: %t\nrps: %d\nburst: %d\n",
		cfg.Host,
		strings.Join(cfg.Headers, ","),
		strings.Join(cfg.Query, ","),
		cfg.Timeout,
		cfg.UserAgent,
		cfg.RequestID,
		cfg.RPS,
		cfg.Burst,
	)
	return err
}
