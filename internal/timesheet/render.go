package timesheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter/tw"
	"github.com/sdpower/mite-go/internal/duration"
	"github.com/sdpower/mite-go/internal/output"
	"github.com/sdpower/mite-go/internal/types"
)

const (
	noteWidth = 60
	// cellWidth is the content width of a calendar cell; tablewriter adds
	// one space of padding on each side.
	cellWidth = 10
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type RenderOptions struct {
	Palette output.Palette
}

// RenderList prints entries grouped under their date, oldest first, then
// the overall total.
func RenderList(entries []types.TimeEntry, opts RenderOptions) string {
	if len(entries) == 0 {
		return "No time entries found.\n"
	}

	p := opts.Palette
	sorted := make([]types.TimeEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	var out strings.Builder
	var total int
	current := ""

	for _, e := range sorted {
		if e.Date != current {
			if current != "" {
				out.WriteString("\n")
			}
			current = e.Date
			out.WriteString(p.Render(p.Header, formatListDate(e.Date)))
			out.WriteString("\n")
		}

		project := e.ProjectName
		if project == "" {
			project = "No project"
		}
		service := e.ServiceName
		if service == "" {
			service = "No service"
		}

		dur := p.Hours(e.Minutes, fmt.Sprintf("%8s", duration.Format(e.Minutes)))
		fmt.Fprintf(&out, "  %s  %s / %s", dur, project, p.Render(p.Muted, service))
		if e.Note != "" {
			fmt.Fprintf(&out, "  %s", output.Truncate(e.Note, noteWidth))
		}
		out.WriteString("\n")
		total += e.Minutes
	}

	out.WriteString("\n")
	out.WriteString(p.Render(p.Total, "Total: "+duration.Format(total)))
	out.WriteString("\n")
	return out.String()
}

func formatListDate(date string) string {
	t, err := time.Parse(types.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("2006-01-02 (Mon)")
}

// RenderCalendar prints the month grid followed by the summary.
func RenderCalendar(entries []types.TimeEntry, year int, month time.Month, today time.Time, opts RenderOptions) string {
	m := BuildMonth(entries, year, month, today)
	summary := Summarize(entries, m.OffDays)

	var out strings.Builder
	out.WriteString(FormatMonth(m, opts))
	out.WriteString("\n")
	out.WriteString(FormatSummary(summary, opts))
	return out.String()
}

// FormatMonth renders a built month as a bordered Monday-first grid.
func FormatMonth(m Month, opts RenderOptions) string {
	p := opts.Palette

	var rows [][]string
	for _, week := range m.Weeks() {
		row := make([]string, 0, 7)
		for _, cell := range week {
			row = append(row, formatCell(cell))
		}
		rows = append(rows, row)
	}

	headers := make([]string, len(weekdays))
	for i, d := range weekdays {
		headers[i] = output.Pad(d, cellWidth)
	}

	grid := output.RenderTable(headers, rows, nil, output.TableOptions{
		Align:       tw.AlignLeft,
		BetweenRows: true,
		Palette:     p,
	})
	grid = colorMarkers(grid, p)

	var out strings.Builder
	title := fmt.Sprintf("%s %d", m.Month, m.Year)
	out.WriteString(p.Render(p.Header, title))
	out.WriteString("\n")
	out.WriteString(grid)
	if !strings.HasSuffix(grid, "\n") {
		out.WriteString("\n")
	}
	out.WriteString(p.Render(p.Muted, fmt.Sprintf("%s >=8h  %s >=6h  %s <6h  %s missing weekday",
		MarkerFull.Symbol(), MarkerPartial.Symbol(), MarkerShort.Symbol(), MarkerOff.Symbol())))
	out.WriteString("\n")
	return out.String()
}

// formatCell renders two fixed-width lines: day number with marker, then
// the logged duration.
func formatCell(cell *Cell) string {
	if cell == nil {
		return output.Pad("", cellWidth) + "\n" + output.Pad("", cellWidth)
	}

	first := strconv.Itoa(cell.Day)
	if sym := cell.Marker.Symbol(); sym != "" {
		first += " " + sym
	}

	second := ""
	if cell.HasTime {
		second = output.Truncate(duration.Format(cell.Minutes), cellWidth)
	}

	return output.Pad(first, cellWidth) + "\n" + output.Pad(second, cellWidth)
}

func colorMarkers(grid string, p output.Palette) string {
	if !p.Enabled {
		return grid
	}
	return strings.NewReplacer(
		MarkerFull.Symbol(), p.Hours(480, MarkerFull.Symbol()),
		MarkerPartial.Symbol(), p.Hours(360, MarkerPartial.Symbol()),
		MarkerShort.Symbol(), p.Hours(0, MarkerShort.Symbol()),
		MarkerOff.Symbol(), p.Render(p.Off, MarkerOff.Symbol()),
	).Replace(grid)
}

func FormatSummary(s Summary, opts RenderOptions) string {
	p := opts.Palette

	var out strings.Builder
	out.WriteString(p.Render(p.Header, "Summary"))
	out.WriteString("\n")

	if !s.HasEntries() {
		out.WriteString("  No entries\n")
	} else {
		fmt.Fprintf(&out, "  Total:        %s\n", p.Render(p.Total, duration.Format(s.TotalMinutes)))
		fmt.Fprintf(&out, "  Days worked:  %d\n", s.DaysWorked)
		fmt.Fprintf(&out, "  Average/day:  %s\n", p.Hours(s.AverageMinutesPerDay, duration.Format(s.AverageMinutesPerDay)))
	}

	fmt.Fprintf(&out, "  Off days:     %d", len(s.OffDays))
	if len(s.OffDays) > 0 {
		days := make([]string, len(s.OffDays))
		for i, d := range s.OffDays {
			days[i] = d.String()
		}
		fmt.Fprintf(&out, " (%s)", p.Render(p.Off, strings.Join(days, ", ")))
	}
	out.WriteString("\n")
	return out.String()
}
