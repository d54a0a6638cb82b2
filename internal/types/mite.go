package types

import (
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type TimeEntry struct {
	ID           int    `json:"id"`
	Date         string `json:"date_at"`
	Minutes      int    `json:"minutes"`
	Note         string `json:"note"`
	ProjectID    int    `json:"project_id,omitempty"`
	ProjectName  string `json:"project_name,omitempty"`
	ServiceID    int    `json:"service_id,omitempty"`
	ServiceName  string `json:"service_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

type Project struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Service struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NewTimeEntry is the payload for creating an entry. Zero IDs and an empty
// date are left out so the server applies its defaults.
type NewTimeEntry struct {
	Minutes   int    `json:"minutes"`
	Note      string `json:"note"`
	Date      string `json:"date_at,omitempty"`
	ProjectID int    `json:"project_id,omitempty"`
	ServiceID int    `json:"service_id,omitempty"`
}

// rawTimeEntry mirrors the wire format; pointers mark required fields and
// nullable references.
type rawTimeEntry struct {
	ID           *int    `json:"id"`
	Date         *string `json:"date_at"`
	Minutes      *int    `json:"minutes"`
	Note         *string `json:"note"`
	ProjectID    *int    `json:"project_id"`
	ProjectName  *string `json:"project_name"`
	ServiceID    *int    `json:"service_id"`
	ServiceName  *string `json:"service_name"`
	CustomerName *string `json:"customer_name"`
}

func (e *TimeEntry) UnmarshalJSON(data []byte) error {
	var raw rawTimeEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return ParseError{Record: "time entry", Err: err}
	}

	switch {
	case raw.ID == nil:
		return ParseError{Record: "time entry", Err: ValidationError{Field: "id", Message: "is required"}}
	case raw.Date == nil:
		return ParseError{Record: "time entry", Err: ValidationError{Field: "date_at", Message: "is required"}}
	case raw.Minutes == nil:
		return ParseError{Record: "time entry", Err: ValidationError{Field: "minutes", Message: "is required"}}
	}
	if *raw.Minutes < 0 {
		return ParseError{Record: "time entry", Err: ValidationError{Field: "minutes", Message: fmt.Sprintf("must not be negative, got %d", *raw.Minutes)}}
	}
	if _, err := time.Parse(DateLayout, *raw.Date); err != nil {
		return ParseError{Record: "time entry", Err: ValidationError{Field: "date_at", Message: fmt.Sprintf("expected YYYY-MM-DD, got %q", *raw.Date)}}
	}

	*e = TimeEntry{
		ID:           *raw.ID,
		Date:         *raw.Date,
		Minutes:      *raw.Minutes,
		Note:         deref(raw.Note),
		ProjectName:  deref(raw.ProjectName),
		ServiceName:  deref(raw.ServiceName),
		CustomerName: deref(raw.CustomerName),
	}
	if raw.ProjectID != nil {
		e.ProjectID = *raw.ProjectID
	}
	if raw.ServiceID != nil {
		e.ServiceID = *raw.ServiceID
	}
	return nil
}

type rawNamed struct {
	ID   *int    `json:"id"`
	Name *string `json:"name"`
}

func decodeNamed(record string, data []byte) (int, string, error) {
	var raw rawNamed
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, "", ParseError{Record: record, Err: err}
	}
	if raw.ID == nil {
		return 0, "", ParseError{Record: record, Err: ValidationError{Field: "id", Message: "is required"}}
	}
	if raw.Name == nil {
		return 0, "", ParseError{Record: record, Err: ValidationError{Field: "name", Message: "is required"}}
	}
	return *raw.ID, *raw.Name, nil
}

func (p *Project) UnmarshalJSON(data []byte) error {
	id, name, err := decodeNamed("project", data)
	if err != nil {
		return err
	}
	*p = Project{ID: id, Name: name}
	return nil
}

func (s *Service) UnmarshalJSON(data []byte) error {
	id, name, err := decodeNamed("service", data)
	if err != nil {
		return err
	}
	*s = Service{ID: id, Name: name}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
