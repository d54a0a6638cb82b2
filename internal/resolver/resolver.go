// Package resolver maps a user-supplied project or service reference to its
// numeric ID.
package resolver

import (
	"strconv"
	"strings"

	"github.com/sdpower/mite-go/internal/types"
	log "github.com/sirupsen/logrus"
)

type Candidate struct {
	ID   int
	Name string
}

func FromProjects(projects []types.Project) []Candidate {
	candidates := make([]Candidate, 0, len(projects))
	for _, p := range projects {
		candidates = append(candidates, Candidate{ID: p.ID, Name: p.Name})
	}
	return candidates
}

func FromServices(services []types.Service) []Candidate {
	candidates := make([]Candidate, 0, len(services))
	for _, s := range services {
		candidates = append(candidates, Candidate{ID: s.ID, Name: s.Name})
	}
	return candidates
}

// NumericID reports whether query is made of digits only and, if so, the
// ID it denotes.
func NumericID(query string) (int, bool) {
	if query == "" {
		return 0, false
	}
	for _, r := range query {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(query)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Resolve returns the ID of the first candidate whose name equals query,
// ignoring case, or failing that the first whose name contains it.
// kind names the record type in the NotFoundError.
func Resolve(kind, query string, candidates []Candidate) (int, error) {
	if id, ok := NumericID(query); ok {
		return id, nil
	}

	q := strings.ToLower(query)
	for _, c := range candidates {
		if strings.ToLower(c.Name) == q {
			log.Debugf("resolved %s %q to %d by exact match", kind, query, c.ID)
			return c.ID, nil
		}
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Name), q) {
			log.Debugf("resolved %s %q to %d (%s) by substring match", kind, query, c.ID, c.Name)
			return c.ID, nil
		}
	}

	return 0, types.NotFoundError{Kind: kind, Query: query}
}
