// Package cli implements the dispatchctl command tree.
//
// Commands resolve their settings from flags, DISPATCH_* environment
// variables (optionally seeded from a .env file) and a dispatchctl.yaml
// config file, in that order of precedence.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	cliName        = "dispatchctl"
	envPrefix      = "DISPATCH"
	defaultTimeout = 30 * time.Second
)

// ErrCancelled is returned when a send was interrupted before its response
// was read.
var ErrCancelled = errors.New("cancelled")

// GlobalOptions holds the options shared by every command.
type GlobalOptions struct {
	ConfigFile string
	EnvFile    string
	LogLevel   string
	LogFormat  string

	v      *viper.Viper
	config Config
	logger *slog.Logger
}

// NewRootCommand creates the dispatchctl command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &GlobalOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   cliName,
		Short: "Send JSON requests to an HTTP API",
		Long: `dispatchctl sends JSON requests to an HTTP API through the dispatch client
and prints the interpreted response.

The base host, default headers and query parameters are read from
dispatchctl.yaml in the working directory and from DISPATCH_* environment
variables. Flags override both.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.LogLevel, opts.LogFormat)
			if err != nil {
				return err
			}
			opts.logger = logger

			cfg, err := loadConfig(opts.v, opts.ConfigFile, opts.EnvFile)
			if err != nil {
				return err
			}
			opts.config = cfg

			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (default ./dispatchctl.yaml)")
	flags.StringVar(&opts.EnvFile, "env-file", "", "env file to load (default ./.env when present)")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&opts.LogFormat, "log-format", "text", "log format: text or json")
	flags.String("host", "", "base host of the API")
	flags.Duration("timeout", defaultTimeout, "overall request timeout")
	flags.String("user-agent", "", "User-Agent sent with every request")
	flags.Bool("request-id", false, "tag every request with a random X-Request-Id")
	flags.Int("rps", 0, "requests per second, 0 disables throttling")
	flags.Int("burst", 1, "throttle burst size")

	for key, name := range map[string]string{
		"host":       "host",
		"timeout":    "timeout",
		"user_agent": "user-agent",
		"request_id": "request-id",
		"rps":        "rps",
		"burst":      "burst",
	} {
		// Lookup cannot fail for the flags registered above.
		_ = opts.v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(
		NewSendCommand(opts),
		NewConfigCommand(opts),
	)

	return cmd
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	ho := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, ho)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, ho)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
