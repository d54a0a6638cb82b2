package commands

import (
	"fmt"
	"strconv"

	"github.com/sdpower/mite-go/internal/output"
	"github.com/sdpower/mite-go/internal/resolver"
	"github.com/sdpower/mite-go/internal/types"
	"github.com/spf13/cobra"
)

func NewListCommand(env *Env) *cobra.Command {
	var (
		format  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:       "list projects|services",
		Short:     "List projects or services",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"projects", "services"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if kind != "projects" && kind != "services" {
				return fmt.Errorf("%w: list %q (use projects or services)", types.ErrUnknownCommand, kind)
			}

			formatter, err := output.NewFormatter(output.FormatterOptions{Format: format, NoColor: noColor})
			if err != nil {
				return err
			}

			client, err := env.client()
			if err != nil {
				return err
			}

			var (
				candidates []resolver.Candidate
				data       any
			)
			ctx := cmd.Context()
			if kind == "projects" {
				projects, err := client.Projects(ctx)
				if err != nil {
					return fmt.Errorf("failed to list projects: %w", err)
				}
				candidates, data = resolver.FromProjects(projects), projects
			} else {
				services, err := client.Services(ctx)
				if err != nil {
					return fmt.Errorf("failed to list services: %w", err)
				}
				candidates, data = resolver.FromServices(services), services
			}

			out := cmd.OutOrStdout()
			if formatter.JSON() {
				s, err := formatter.FormatJSON(data)
				if err != nil {
					return err
				}
				fmt.Fprint(out, s)
				return nil
			}

			if len(candidates) == 0 {
				fmt.Fprintf(out, "No %s found.\n", kind)
				return nil
			}

			rows := make([][]string, 0, len(candidates))
			for _, c := range candidates {
				rows = append(rows, []string{strconv.Itoa(c.ID), c.Name})
			}
			fmt.Fprint(out, output.RenderTable([]string{"ID", "Name"}, rows, nil, output.TableOptions{
				Palette: output.NewPalette(formatter.Color(out)),
			}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
