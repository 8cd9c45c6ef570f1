package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"laneboard/internal/clients"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check database health and lane ranking density",
		Long: `Check database health and lane ranking density.

Each lane must hold priorities 1..N with no gaps or duplicates. With --fix,
lanes that fail the check are renumbered in their current order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withStore(func(store *clients.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return fmt.Errorf("check health: %w", err)
				}
				for _, line := range doctorLines(health, colorize) {
					fmt.Fprintln(out, line)
				}

				if len(health.Violations) == 0 {
					if !health.Healthy() {
						return fmt.Errorf("database is unhealthy")
					}
					return nil
				}
				if !fix {
					return fmt.Errorf("%s out of order; rerun with --fix to renumber", pluralize(len(health.Violations), "lane"))
				}

				for _, violation := range health.Violations {
					changed, err := store.Renumber(cmd.Context(), violation.Lane)
					if err != nil {
						return fmt.Errorf("renumber %s: %w", violation.Lane, err)
					}
					fmt.Fprintln(out, renderStatusLine(laneTitle(violation.Lane), statusOK,
						fmt.Sprintf("renumbered %s", pluralize(int(changed), "client")), colorize))
				}

				remaining, err := store.Audit(cmd.Context())
				if err != nil {
					return fmt.Errorf("audit after repair: %w", err)
				}
				if len(remaining) > 0 {
					return fmt.Errorf("%s still out of order after repair", pluralize(len(remaining), "lane"))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Renumber lanes whose priorities are not dense")
	return cmd
}

func doctorLines(health clients.DatabaseHealth, colorize bool) []string {
	lines := renderSectionHeader("Database", colorize)
	lines = append(lines, renderStatusLine("Path", statusInfo, health.DBPath, colorize))

	if !health.DatabaseExists {
		return append(lines, renderStatusLine("Database", statusError, "not found", colorize))
	}
	if !health.DatabaseReadable {
		return append(lines, renderStatusLine("Database", statusError, health.Error, colorize))
	}
	lines = append(lines, renderStatusLine("Schema version", statusInfo, fmt.Sprintf("%d", health.SchemaVersion), colorize))
	if health.IntegrityCheck {
		lines = append(lines, renderStatusLine("Integrity", statusOK, "", colorize))
	} else {
		lines = append(lines, renderStatusLine("Integrity", statusError, health.Error, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Lanes", colorize)...)
	violated := make(map[clients.Lane]clients.LaneViolation, len(health.Violations))
	for _, v := range health.Violations {
		violated[v.Lane] = v
	}
	for _, lane := range clients.Lanes() {
		count := health.LaneCounts[lane]
		if v, ok := violated[lane]; ok {
			lines = append(lines, renderStatusLine(laneTitle(lane), statusWarn,
				fmt.Sprintf("%s ranked %s", pluralize(v.Count, "client"), formatPriorities(v.Priorities)), colorize))
			continue
		}
		lines = append(lines, renderStatusLine(laneTitle(lane), statusOK, pluralize(count, "client"), colorize))
	}
	return lines
}

func formatPriorities(priorities []int) string {
	parts := make([]string, len(priorities))
	for i, p := range priorities {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
