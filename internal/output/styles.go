package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the styles used by the timesheet and listing views. A
// disabled palette renders every string unchanged.
type Palette struct {
	Enabled bool
	Header  lipgloss.Style
	Border  lipgloss.Style
	Total   lipgloss.Style
	Muted   lipgloss.Style
	Off     lipgloss.Style
}

var (
	lowHours  = mustHex("#E06C75")
	highHours = mustHex("#98C379")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func NewPalette(enabled bool) Palette {
	if !enabled {
		plain := lipgloss.NewStyle()
		return Palette{Header: plain, Border: plain, Total: plain, Muted: plain, Off: plain}
	}
	return Palette{
		Enabled: true,
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Total:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Off:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// HoursColor blends from red at zero to green at a full eight hour day.
func HoursColor(minutes int) colorful.Color {
	t := float64(minutes) / 480
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return lowHours.BlendLab(highHours, t).Clamped()
}

// Hours renders s in the color HoursColor picks for minutes.
func (p Palette) Hours(minutes int, s string) string {
	if !p.Enabled {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(HoursColor(minutes).Hex())).Render(s)
}

func (p Palette) Render(style lipgloss.Style, s string) string {
	if !p.Enabled {
		return s
	}
	return style.Render(s)
}
