package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/searchktools/mock-server/app"
	"github.com/searchktools/mock-server/config"
)

type flags struct {
	configPath      string
	script          string
	host            string
	acceptDelay     time.Duration
	pollTimeout     time.Duration
	debug           bool
	exitWhenDrained bool
}

func newRootCommand() *cobra.Command {
	return newCommand(&flags{})
}

func newCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mockserver",
		Short: "Serve scripted HTTP/1.1 responses and record the requests",
		Long: `mockserver binds an ephemeral port on all IPv4 interfaces and answers each
incoming request with the next response of a YAML script, in order. When it
stops, the recorded requests and counters are printed.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, app.Options{
				ExitWhenDrained: f.exitWhenDrained,
				Output:          cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&f.script, "script", "s", "", "YAML response script")
	fs.StringVar(&f.host, "host", "", "host name advertised in the server URL")
	fs.DurationVar(&f.acceptDelay, "accept-delay", 0, "delay before accepting each connection")
	fs.DurationVar(&f.pollTimeout, "poll-timeout", 0, "bound on each readiness wait")
	fs.BoolVar(&f.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&f.exitWhenDrained, "exit-when-drained", false, "stop once every scripted response was served")

	return cmd
}

// config loads the configuration file and applies the flags that were set
func (f *flags) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.LoadDefault()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs := cmd.Flags()
	if fs.Changed("script") {
		cfg.Script = f.script
	}
	if fs.Changed("host") {
		cfg.Server.Host = f.host
	}
	if fs.Changed("accept-delay") {
		cfg.Server.AcceptDelayMillis = int(f.acceptDelay / time.Millisecond)
	}
	if fs.Changed("poll-timeout") {
		cfg.Server.PollTimeoutMillis = int(f.pollTimeout / time.Millisecond)
	}
	if fs.Changed("debug") {
		cfg.Logging.Debug = f.debug
	}

	return cfg, cfg.Validate()
}
