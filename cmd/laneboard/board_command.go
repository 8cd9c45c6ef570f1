package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"laneboard/internal/api"
	"laneboard/internal/apiclient"
	"laneboard/internal/clients"
)

func newBoardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show the three lanes side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				items, err := client.List(cmd.Context(), "")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatBoard(items))
				return nil
			})
		},
	}
}

// formatBoard groups a priority-ordered listing into lane columns. Entries
// keep the order the server returned them in.
func formatBoard(items []api.Client) string {
	lanes := clients.Lanes()
	index := make(map[string]int, len(lanes))
	headers := make([]string, len(lanes))
	for i, lane := range lanes {
		index[string(lane)] = i
		headers[i] = laneTitle(lane)
	}

	columns := make([][]string, len(lanes))
	for _, item := range items {
		col, ok := index[item.Status]
		if !ok {
			continue
		}
		columns[col] = append(columns[col], fmt.Sprintf("%d. %s (#%d)", item.Priority, item.Name, item.ID))
	}
	return renderBoard(headers, columns)
}
