package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sdpower/mite-go/internal/duration"
	"github.com/sdpower/mite-go/internal/types"
	"github.com/spf13/cobra"
)

func NewAddCommand(env *Env) *cobra.Command {
	var (
		date    string
		project string
		service string
	)

	cmd := &cobra.Command{
		Use:   "add <duration> <note>",
		Short: "Create a time entry",
		Long: `Create a time entry. Duration accepts minutes (90, 90m), decimal hours (1.5h)
or hours and minutes (1h30m, 1h30).`,
		Example: `  mite add 1h30m "Code review" --project Website --service Development
  mite add 45 "Standup" --date 2025-01-15`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := duration.Parse(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			if date != "" {
				if _, err := time.Parse(types.DateLayout, date); err != nil {
					return types.ValidationError{Field: "date", Message: fmt.Sprintf("invalid date %q, use YYYY-MM-DD", date)}
				}
			}

			client, err := env.client()
			if err != nil {
				return err
			}

			entry := types.NewTimeEntry{
				Minutes: minutes,
				Note:    args[1],
				Date:    date,
			}

			ctx := cmd.Context()
			if project != "" {
				entry.ProjectID, err = resolveID(ctx, cmd.ErrOrStderr(), "project", project, projectLister(client))
				if err != nil {
					return err
				}
			}
			if service != "" {
				entry.ServiceID, err = resolveID(ctx, cmd.ErrOrStderr(), "service", service, serviceLister(client))
				if err != nil {
					return err
				}
			}

			created, err := client.CreateTimeEntry(ctx, entry)
			if err != nil {
				return fmt.Errorf("failed to create time entry: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Time entry created")
			fmt.Fprintf(out, "  Date:     %s\n", created.Date)
			fmt.Fprintf(out, "  Duration: %s (%d minutes)\n", duration.Format(created.Minutes), created.Minutes)
			fmt.Fprintf(out, "  Note:     %s\n", created.Note)
			if created.ProjectName != "" {
				fmt.Fprintf(out, "  Project:  %s\n", created.ProjectName)
			}
			if created.ServiceName != "" {
				fmt.Fprintf(out, "  Service:  %s\n", created.ServiceName)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Date of the entry (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name or ID")
	cmd.Flags().StringVarP(&service, "service", "s", "", "Service name or ID")

	return cmd
}
