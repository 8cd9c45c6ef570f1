package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"laneboard/internal/api"
	"laneboard/internal/apiclient"
	"laneboard/internal/clients"
)

func newClientsCommand(ctx *commandContext) *cobra.Command {
	clientsCmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client"},
		Short:   "List, inspect, and move clients",
	}

	clientsCmd.AddCommand(newClientsListCommand(ctx))
	clientsCmd.AddCommand(newClientsShowCommand(ctx))
	clientsCmd.AddCommand(newClientsMoveCommand(ctx))
	clientsCmd.AddCommand(newClientsAddCommand(ctx))

	return clientsCmd
}

func newClientsListCommand(ctx *commandContext) *cobra.Command {
	var status string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients ordered by lane and priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				items, err := client.List(cmd.Context(), strings.TrimSpace(status))
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, items)
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No clients")
					return nil
				}
				fmt.Fprintln(out, renderClientTable(items))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Only list clients in this lane (backlog, in-progress, complete)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newClientsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseClientID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				item, err := client.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, item)
				}
				printClientDetails(cmd, *item)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newClientsMoveCommand(ctx *commandContext) *cobra.Command {
	var status string
	var priority int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Move a client to another lane and/or priority",
		Long: `Move a client to another lane and/or priority.

Priorities past the bottom of the target lane are clamped. Moving into a new
lane without --priority places the client at the bottom of that lane.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseClientID(args[0])
			if err != nil {
				return err
			}
			var req apiclient.MoveRequest
			if cmd.Flags().Changed("status") {
				value := strings.TrimSpace(status)
				req.Status = &value
			}
			if cmd.Flags().Changed("priority") {
				value := priority
				req.Priority = &value
			}
			if req.Status == nil && req.Priority == nil {
				return errors.New("nothing to do: pass --status and/or --priority")
			}

			return ctx.withClient(func(client *apiclient.Client) error {
				board, err := client.Move(cmd.Context(), id, req)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, board)
				}
				out := cmd.OutOrStdout()
				for _, item := range board {
					if item.ID == id {
						fmt.Fprintf(out, "Client %d (%s) is now %s #%d\n", item.ID, item.Name, item.Status, item.Priority)
						return nil
					}
				}
				fmt.Fprintf(out, "Client %d moved\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Target lane (backlog, in-progress, complete)")
	cmd.Flags().IntVarP(&priority, "priority", "p", 0, "Target priority within the lane (1 is the top)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the full board as JSON")
	return cmd
}

func newClientsAddCommand(ctx *commandContext) *cobra.Command {
	var input clients.NewClient
	var status string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a client at the bottom of a lane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Name = args[0]
			if value := strings.TrimSpace(status); value != "" {
				lane, ok := clients.ParseLane(value)
				if !ok {
					return fmt.Errorf("unknown lane %q (expected backlog, in-progress, or complete)", value)
				}
				input.Lane = lane
			}
			return ctx.withStore(func(store *clients.Store) error {
				created, err := store.Create(cmd.Context(), input)
				if err != nil {
					return fmt.Errorf("add client: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added client %d (%s) to %s at priority %d\n",
					created.ID, created.Name, created.Lane, created.Priority)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Lane to add the client to (default backlog)")
	cmd.Flags().StringVar(&input.Org, "org", "", "Organisation name")
	cmd.Flags().StringVar(&input.Description, "description", "", "Free-form description")
	cmd.Flags().StringVar(&input.ContactName, "contact-name", "", "Primary contact name")
	cmd.Flags().StringVar(&input.ContactEmail, "contact-email", "", "Primary contact email")
	return cmd
}

func parseClientID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid client id %q", raw)
	}
	return id, nil
}

func renderClientTable(items []api.Client) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.Status,
			strconv.Itoa(item.Priority),
			item.Name,
			item.Org,
		})
	}
	return renderTable(
		[]string{"ID", "Lane", "Priority", "Name", "Org"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func printClientDetails(cmd *cobra.Command, item api.Client) {
	out := cmd.OutOrStdout()
	fields := [][2]string{
		{"ID", strconv.FormatInt(item.ID, 10)},
		{"Name", item.Name},
		{"Lane", item.Status},
		{"Priority", strconv.Itoa(item.Priority)},
		{"Org", item.Org},
		{"Description", item.Description},
		{"Contact", formatContact(item.ContactName, item.ContactEmail)},
		{"Created", item.CreatedAt},
		{"Updated", item.UpdatedAt},
	}
	for _, field := range fields {
		if field[1] == "" {
			continue
		}
		fmt.Fprintf(out, "%-12s %s\n", field[0]+":", field[1])
	}
}

func formatContact(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s <%s>", name, email)
	case email != "":
		return email
	default:
		return name
	}
}
