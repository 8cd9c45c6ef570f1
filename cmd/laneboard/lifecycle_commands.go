package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"laneboard/internal/apiclient"
	"laneboard/internal/daemonctl"
)

const (
	startTimeout    = 10 * time.Second
	stopGracePeriod = 5 * time.Second
)

func newStartCommand(ctx *commandContext) *cobra.Command {
	var diagnostic bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the laneboard server in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			exe, err := serverExecutable()
			if err != nil {
				return err
			}
			base, err := ctx.serverURL()
			if err != nil {
				return err
			}

			opts := daemonctl.LaunchOptions{LogLevel: logLevel, Diagnostic: diagnostic}
			if ctx.configSeen {
				opts.ConfigPath = ctx.configPath
			}
			result, err := daemonctl.EnsureStarted(cmd.Context(), cfg.PIDPath(), exe, opts, apiclient.New(base), startTimeout)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch result.State {
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintf(out, "Server already running (pid %d)\n", result.PID)
			default:
				fmt.Fprintf(out, "Server started at %s\n", base)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().BoolVar(&diagnostic, "diagnostic", false, "Enable diagnostic mode with separate DEBUG logs")
	return cmd
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a background laneboard server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(cfg.PIDPath(), stopGracePeriod)
			if errors.Is(err, daemonctl.ErrNotRunning) {
				fmt.Fprintln(out, "Server is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.ForcedKill {
				fmt.Fprintf(out, "Server (pid %d) ignored SIGTERM and was killed\n", result.PID)
				return nil
			}
			fmt.Fprintf(out, "Server (pid %d) stopped\n", result.PID)
			return nil
		},
	}
}

func serverExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}
