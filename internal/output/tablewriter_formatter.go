package output

import (
	"bytes"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// TableOptions controls RenderTable.
type TableOptions struct {
	Align       tw.Align
	BetweenRows bool
	Palette     Palette
}

// RenderTable draws a bordered table. footer may be nil.
func RenderTable(headers []string, rows [][]string, footer []string, opts TableOptions) string {
	if opts.Align == "" {
		opts.Align = tw.AlignLeft
	}

	var buf bytes.Buffer

	settings := tw.Settings{}
	if opts.BetweenRows {
		settings.Separators = tw.Separators{BetweenRows: tw.On}
	}

	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: settings,
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: opts.Align},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	if footer != nil {
		table.Footer(footer)
	}
	table.Render()

	return colorizeTable(buf.String(), footer != nil, opts.Palette)
}

// colorizeTable styles borders, the header row and the footer row of a
// rendered table line by line.
func colorizeTable(table string, hasFooter bool, p Palette) string {
	if !p.Enabled {
		return table
	}

	lines := strings.Split(table, "\n")

	// the header sits between the first two border lines and the footer
	// between the last two
	var borders []int
	for i, line := range lines {
		if isBorderLine(line) {
			borders = append(borders, i)
		}
	}

	var out strings.Builder
	for i, line := range lines {
		if i > 0 {
			out.WriteString("\n")
		}
		if line == "" {
			continue
		}
		if isBorderLine(line) {
			out.WriteString(p.Border.Render(line))
			continue
		}

		var style = p.Muted
		content := false
		switch {
		case len(borders) >= 2 && i > borders[0] && i < borders[1]:
			style, content = p.Header, true
		case hasFooter && len(borders) >= 2 && i > borders[len(borders)-2] && i < borders[len(borders)-1]:
			style, content = p.Total, true
		}

		parts := strings.Split(line, "│")
		for j, part := range parts {
			if j > 0 {
				out.WriteString(p.Border.Render("│"))
			}
			if content && strings.TrimSpace(part) != "" {
				out.WriteString(style.Render(part))
			} else {
				out.WriteString(part)
			}
		}
	}
	return out.String()
}

func isBorderLine(line string) bool {
	return strings.HasPrefix(line, "┌") || strings.HasPrefix(line, "├") || strings.HasPrefix(line, "└")
}
