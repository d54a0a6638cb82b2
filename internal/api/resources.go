package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sdpower/mite-go/internal/types"
)

// Range is a date range preset understood by the time_entries "at" filter.
type Range string

const (
	Today     Range = "today"
	Yesterday Range = "yesterday"
	ThisWeek  Range = "this_week"
	LastWeek  Range = "last_week"
	ThisMonth Range = "this_month"
	LastMonth Range = "last_month"
)

func (r Range) Valid() bool {
	switch r {
	case Today, Yesterday, ThisWeek, LastWeek, ThisMonth, LastMonth:
		return true
	}
	return false
}

type TimeEntryQuery struct {
	At        Range
	ProjectID int
	Limit     int
}

func (q TimeEntryQuery) values() url.Values {
	v := url.Values{}
	if q.At != "" {
		v.Set("at", string(q.At))
	}
	if q.ProjectID > 0 {
		v.Set("project_id", strconv.Itoa(q.ProjectID))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type projectEnvelope struct {
	Project types.Project `json:"project"`
}

type serviceEnvelope struct {
	Service types.Service `json:"service"`
}

type timeEntryEnvelope struct {
	TimeEntry types.TimeEntry `json:"time_entry"`
}

type newTimeEntryEnvelope struct {
	TimeEntry types.NewTimeEntry `json:"time_entry"`
}

func (c *Client) Projects(ctx context.Context) ([]types.Project, error) {
	var raw []projectEnvelope
	if err := c.Do(ctx, http.MethodGet, "/projects.json", nil, nil, &raw); err != nil {
		return nil, err
	}
	projects := make([]types.Project, 0, len(raw))
	for _, r := range raw {
		projects = append(projects, r.Project)
	}
	return projects, nil
}

func (c *Client) Services(ctx context.Context) ([]types.Service, error) {
	var raw []serviceEnvelope
	if err := c.Do(ctx, http.MethodGet, "/services.json", nil, nil, &raw); err != nil {
		return nil, err
	}
	services := make([]types.Service, 0, len(raw))
	for _, r := range raw {
		services = append(services, r.Service)
	}
	return services, nil
}

func (c *Client) TimeEntries(ctx context.Context, q TimeEntryQuery) ([]types.TimeEntry, error) {
	if q.At != "" && !q.At.Valid() {
		return nil, types.ValidationError{Field: "at", Message: fmt.Sprintf("unknown range %q", q.At)}
	}

	var raw []timeEntryEnvelope
	if err := c.Do(ctx, http.MethodGet, "/time_entries.json", q.values(), nil, &raw); err != nil {
		return nil, err
	}
	entries := make([]types.TimeEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, r.TimeEntry)
	}
	return entries, nil
}

func (c *Client) CreateTimeEntry(ctx context.Context, entry types.NewTimeEntry) (types.TimeEntry, error) {
	if entry.Minutes < 0 {
		return types.TimeEntry{}, types.ValidationError{Field: "minutes", Message: "must not be negative"}
	}

	var created timeEntryEnvelope
	body := newTimeEntryEnvelope{TimeEntry: entry}
	if err := c.Do(ctx, http.MethodPost, "/time_entries.json", nil, body, &created); err != nil {
		return types.TimeEntry{}, err
	}
	return created.TimeEntry, nil
}
