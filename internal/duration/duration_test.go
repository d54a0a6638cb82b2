package duration

import (
	"errors"
	"testing"

	"github.com/sdpower/mite-go/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"90", 90},
		{"0", 0},
		{"0m", 0},
		{"2h", 120},
		{"1h30m", 90},
		{"1h30", 90},
		{"1.5h", 90},
		{"0.25h", 15},
		{"0.025h", 2},
		{"0.01h", 1},
		{"0.001h", 0},
		{"8h", 480},
		{"90m", 90},
		{"007", 7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		"bogus",
		"",
		"-5",
		"-1h",
		" 90",
		"90 ",
		"1.5",
		"1.5m",
		"h",
		"1h30s",
		"1.h",
		"99999999999999999999999",
		"99999999999999999999h",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.ErrorIs(t, err, types.ErrInvalidDurationFormat)

			var derr types.DurationError
			if assert.True(t, errors.As(err, &derr)) {
				assert.Equal(t, input, derr.Input)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{90, "1h 30m"},
		{120, "2h"},
		{45, "45m"},
		{0, "0m"},
		{61, "1h 1m"},
		{600, "10h"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.minutes))
		assert.Equal(t, Format(tt.minutes), Format(tt.minutes))
	}
}
