// Package duration converts between free-form duration strings and minutes.
package duration

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"

	"github.com/sdpower/mite-go/internal/types"
)

var (
	minutesOnly   = regexp.MustCompile(`^\d+$`)
	decimalHours  = regexp.MustCompile(`^(\d+(?:\.\d+)?)h$`)
	hoursMinutes  = regexp.MustCompile(`^(\d+)h(\d+)m?$`)
	minutesSuffix = regexp.MustCompile(`^(\d+)m$`)
)

// Parse returns the number of minutes described by input. Accepted forms,
// checked in order: "90", "1.5h", "1h30m" or "1h30", "90m". Input is not
// trimmed.
func Parse(input string) (int, error) {
	switch {
	case minutesOnly.MatchString(input):
		return atoi(input)

	case decimalHours.MatchString(input):
		m := decimalHours.FindStringSubmatch(input)
		return hoursToMinutes(input, m[1])

	case hoursMinutes.MatchString(input):
		m := hoursMinutes.FindStringSubmatch(input)
		hours, err := atoiInput(input, m[1])
		if err != nil {
			return 0, err
		}
		mins, err := atoiInput(input, m[2])
		if err != nil {
			return 0, err
		}
		if hours > (maxInt-mins)/60 {
			return 0, types.DurationError{Input: input}
		}
		return hours*60 + mins, nil

	case minutesSuffix.MatchString(input):
		m := minutesSuffix.FindStringSubmatch(input)
		return atoiInput(input, m[1])
	}

	return 0, types.DurationError{Input: input}
}

const maxInt = int(^uint(0) >> 1)

// hoursToMinutes rounds hours*60 half-up using exact decimal arithmetic.
func hoursToMinutes(input, hours string) (int, error) {
	r, ok := new(big.Rat).SetString(hours)
	if !ok {
		return 0, types.DurationError{Input: input}
	}
	r.Mul(r, big.NewRat(60, 1))

	// floor(r + 1/2) for non-negative r
	num := new(big.Int).Mul(r.Num(), big.NewInt(2))
	num.Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), big.NewInt(2))
	q := new(big.Int).Quo(num, den)

	if !q.IsInt64() || q.Int64() > int64(maxInt) {
		return 0, types.DurationError{Input: input}
	}
	return int(q.Int64()), nil
}

func atoi(s string) (int, error) {
	return atoiInput(s, s)
}

func atoiInput(input, digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, types.DurationError{Input: input}
	}
	return n, nil
}

// Format renders minutes as "1h 30m", "2h" or "45m".
func Format(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
