// Package timesheet buckets time entries by day and renders them as a
// chronological list or a monthly calendar grid.
package timesheet

import (
	"fmt"
	"time"

	"github.com/sdpower/mite-go/internal/types"
)

type Marker int

const (
	MarkerNone Marker = iota
	MarkerShort
	MarkerPartial
	MarkerFull
	MarkerOff
)

func (m Marker) Symbol() string {
	switch m {
	case MarkerShort:
		return "○"
	case MarkerPartial:
		return "◐"
	case MarkerFull:
		return "●"
	case MarkerOff:
		return "OFF"
	}
	return ""
}

func (m Marker) String() string {
	switch m {
	case MarkerShort:
		return "short"
	case MarkerPartial:
		return "partial"
	case MarkerFull:
		return "full"
	case MarkerOff:
		return "off"
	}
	return "none"
}

// Classify buckets logged minutes by whole hours: 8 or more is full, 6 or
// 7 partial, anything less short.
func Classify(minutes int) Marker {
	if minutes <= 0 {
		return MarkerNone
	}
	switch hours := minutes / 60; {
	case hours >= 8:
		return MarkerFull
	case hours >= 6:
		return MarkerPartial
	default:
		return MarkerShort
	}
}

type Cell struct {
	Day     int
	Minutes int
	HasTime bool
	Weekend bool
	Past    bool
	Marker  Marker
}

type DayMonth struct {
	Day   int        `json:"day"`
	Month time.Month `json:"month"`
}

func (d DayMonth) String() string {
	return fmt.Sprintf("%d/%d", d.Day, int(d.Month))
}

type Month struct {
	Year  int
	Month time.Month
	// Leading is the number of blank cells before day 1, Monday first.
	Leading int
	Cells   []Cell
	OffDays []DayMonth
}

// FirstWeekday returns the weekday of the 1st with Monday as 0.
func FirstWeekday(year int, month time.Month) int {
	return (int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()) + 6) % 7
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// BuildMonth lays out the month and classifies each day. Days before today
// count as past; today should be a midnight in the user's location.
func BuildMonth(entries []types.TimeEntry, year int, month time.Month, today time.Time) Month {
	perDay := make(map[string]int)
	for _, e := range entries {
		perDay[e.Date] += e.Minutes
	}

	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	m := Month{
		Year:    year,
		Month:   month,
		Leading: FirstWeekday(year, month),
	}

	days := DaysIn(year, month)
	m.Cells = make([]Cell, 0, days)
	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		minutes := perDay[date.Format(types.DateLayout)]

		cell := Cell{
			Day:     day,
			Minutes: minutes,
			Weekend: date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
			Past:    date.Before(todayDate),
		}

		if minutes > 0 {
			cell.HasTime = true
			cell.Marker = Classify(minutes)
		} else if !cell.Weekend && cell.Past {
			cell.Marker = MarkerOff
			m.OffDays = append(m.OffDays, DayMonth{Day: day, Month: month})
		}

		m.Cells = append(m.Cells, cell)
	}

	return m
}

// Weeks splits the month into rows of seven, nil marking blank cells.
func (m Month) Weeks() [][]*Cell {
	var weeks [][]*Cell
	week := make([]*Cell, m.Leading, 7)

	for i := range m.Cells {
		week = append(week, &m.Cells[i])
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]*Cell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

type Summary struct {
	TotalMinutes         int        `json:"total_minutes"`
	DaysWorked           int        `json:"days_worked"`
	AverageMinutesPerDay int        `json:"average_minutes_per_day"`
	OffDays              []DayMonth `json:"off_days"`
}

// Summarize aggregates all entries regardless of month; offDays is kept in
// the given order.
func Summarize(entries []types.TimeEntry, offDays []DayMonth) Summary {
	s := Summary{OffDays: offDays}
	dates := make(map[string]struct{})
	for _, e := range entries {
		s.TotalMinutes += e.Minutes
		dates[e.Date] = struct{}{}
	}
	s.DaysWorked = len(dates)
	if s.HasEntries() {
		s.AverageMinutesPerDay = s.TotalMinutes / s.DaysWorked
	}
	if s.OffDays == nil {
		s.OffDays = []DayMonth{}
	}
	return s
}

func (s Summary) HasEntries() bool {
	return s.TotalMinutes > 0 && s.DaysWorked > 0
}
