package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"laneboard/internal/apiclient"
	"laneboard/internal/daemonctl"
)

const statusProbeTimeout = 2 * time.Second

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a laneboard server is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Server", colorize) {
				fmt.Fprintln(out, line)
			}

			pid, running := daemonctl.ProcessInfo(cfg.PIDPath())
			if !running {
				message := "Not running"
				if pid != 0 {
					if err := os.Remove(cfg.PIDPath()); err == nil {
						message = "Not running (removed stale pid file)"
					}
				}
				fmt.Fprintln(out, renderStatusLine("Laneboard", statusError, message, colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Laneboard", statusOK, "Running (pid "+strconv.Itoa(pid)+")", colorize))

			base, err := ctx.serverURL()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderStatusLine("Address", statusInfo, base, colorize))

			probeCtx, cancel := context.WithTimeout(cmd.Context(), statusProbeTimeout)
			defer cancel()
			health, err := apiclient.New(base).Health(probeCtx)
			switch {
			case health == nil:
				fmt.Fprintln(out, renderStatusLine("API", statusWarn, "unreachable: "+err.Error(), colorize))
			case err != nil:
				fmt.Fprintln(out, renderStatusLine("API", statusWarn, health.Status, colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("API", statusOK, fmt.Sprintf("%s, %s", health.Status, pluralize(health.TotalClients, "client")), colorize))
			}
			return nil
		},
	}
}
