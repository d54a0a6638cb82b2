package commands

import (
	"fmt"
	"time"

	"github.com/sdpower/mite-go/internal/api"
	"github.com/sdpower/mite-go/internal/clock"
	"github.com/sdpower/mite-go/internal/output"
	"github.com/sdpower/mite-go/internal/timesheet"
	"github.com/sdpower/mite-go/internal/types"
	"github.com/spf13/cobra"
)

type rangeFlag struct {
	name  string
	short string
	at    api.Range
	usage string
}

var rangeFlags = []rangeFlag{
	{"today", "t", api.Today, "Entries logged today"},
	{"yesterday", "y", api.Yesterday, "Entries logged yesterday"},
	{"week", "w", api.ThisWeek, "Entries of the current week"},
	{"last-week", "", api.LastWeek, "Entries of the previous week"},
	{"month", "m", api.ThisMonth, "Calendar of the current month (default)"},
	{"last-month", "", api.LastMonth, "Calendar of the previous month"},
}

type timesheetReport struct {
	Range   api.Range          `json:"range"`
	Year    int                `json:"year,omitempty"`
	Month   int                `json:"month,omitempty"`
	Entries []types.TimeEntry  `json:"entries"`
	Summary *timesheet.Summary `json:"summary,omitempty"`
}

func NewTimesheetCommand(env *Env) *cobra.Command {
	var (
		project  string
		limit    int
		listView bool
		format   string
		noColor  bool
		selected = make([]bool, len(rangeFlags))
	)

	cmd := &cobra.Command{
		Use:   "timesheet",
		Short: "Show logged time",
		Long: `Show logged time as a list, or as a monthly calendar for --month and --last-month.
Past weekdays without any entry are marked OFF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at := api.ThisMonth
			for i, on := range selected {
				if on {
					at = rangeFlags[i].at
				}
			}

			formatter, err := output.NewFormatter(output.FormatterOptions{Format: format, NoColor: noColor})
			if err != nil {
				return err
			}
			if limit < 0 {
				return types.ValidationError{Field: "limit", Message: "must not be negative"}
			}

			client, err := env.client()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			query := api.TimeEntryQuery{At: at, Limit: limit}
			if project != "" {
				query.ProjectID, err = resolveID(ctx, cmd.ErrOrStderr(), "project", project, projectLister(client))
				if err != nil {
					return err
				}
			}

			entries, err := client.TimeEntries(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to fetch time entries: %w", err)
			}

			today := clock.Today(env.Clock)
			calendar := (at == api.ThisMonth || at == api.LastMonth) && !listView
			year, month := calendarMonth(at, today)

			out := cmd.OutOrStdout()

			if formatter.JSON() {
				report := timesheetReport{Range: at, Entries: entries}
				if calendar {
					m := timesheet.BuildMonth(entries, year, month, today)
					summary := timesheet.Summarize(entries, m.OffDays)
					report.Year, report.Month, report.Summary = year, int(month), &summary
				}
				s, err := formatter.FormatJSON(report)
				if err != nil {
					return fmt.Errorf("failed to format timesheet: %w", err)
				}
				fmt.Fprint(out, s)
				return nil
			}

			opts := timesheet.RenderOptions{Palette: output.NewPalette(formatter.Color(out))}
			if calendar {
				fmt.Fprint(out, timesheet.RenderCalendar(entries, year, month, today, opts))
			} else {
				fmt.Fprint(out, timesheet.RenderList(entries, opts))
			}
			return nil
		},
	}

	names := make([]string, 0, len(rangeFlags))
	for i, f := range rangeFlags {
		cmd.Flags().BoolVarP(&selected[i], f.name, f.short, false, f.usage)
		names = append(names, f.name)
	}
	cmd.MarkFlagsMutuallyExclusive(names...)

	cmd.Flags().StringVarP(&project, "project", "p", "", "Only entries of this project (name or ID)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of entries to fetch")
	cmd.Flags().BoolVar(&listView, "list", false, "Show month ranges as a list instead of a calendar")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

// calendarMonth returns the month a calendar range covers relative to today.
func calendarMonth(at api.Range, today time.Time) (int, time.Month) {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	if at == api.LastMonth {
		first = first.AddDate(0, -1, 0)
	}
	return first.Year(), first.Month()
}
