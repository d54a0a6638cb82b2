package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sdpower/mite-go/internal/types"
)

type Formatter struct {
	options FormatterOptions
}

type FormatterOptions struct {
	Format  string // "table", "json"
	NoColor bool
}

func NewFormatter(opts FormatterOptions) (*Formatter, error) {
	if opts.Format == "" {
		opts.Format = "table"
	}
	if opts.Format != "table" && opts.Format != "json" {
		return nil, types.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported format %q (use table or json)", opts.Format)}
	}
	return &Formatter{options: opts}, nil
}

func (f *Formatter) JSON() bool {
	return f.options.Format == "json"
}

// Color reports whether styled output should be written to w.
func (f *Formatter) Color(w io.Writer) bool {
	return ColorEnabled(f.options.NoColor, w)
}

func (f *Formatter) FormatJSON(data interface{}) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

// ColorEnabled is false when noColor is set, NO_COLOR is present, or w is
// not a terminal.
func ColorEnabled(noColor bool, w io.Writer) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Truncate cuts s to at most maxLen runes.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}

// Pad right-pads s with spaces to width runes.
func Pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
