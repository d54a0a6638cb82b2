package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sdpower/mite-go/internal/api"
	"github.com/sdpower/mite-go/internal/clock"
	"github.com/sdpower/mite-go/internal/config"
	"github.com/sdpower/mite-go/internal/prompt"
	"github.com/sdpower/mite-go/internal/resolver"
	log "github.com/sirupsen/logrus"
)

// maxCandidates caps the listing shown when a name cannot be resolved.
const maxCandidates = 10

// Env carries the collaborators commands share. Tests replace its fields.
type Env struct {
	Clock       clock.Clock
	ConfigPath  func() (string, error)
	Credentials func() (config.Credentials, error)
	ClientOpts  []api.Option
	// Prompt asks for missing credentials; nil disables prompting.
	Prompt func(ctx context.Context, opts prompt.Options) (config.Credentials, error)
	// Interactive reports whether stdin is a terminal.
	Interactive func() bool
}

func DefaultEnv() *Env {
	return &Env{
		Clock:      clock.SystemClock{},
		ConfigPath: config.DefaultPath,
		Credentials: func() (config.Credentials, error) {
			return config.Load(config.Options{})
		},
		Prompt: prompt.Credentials,
		Interactive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
}

func (e *Env) client() (*api.Client, error) {
	creds, err := e.Credentials()
	if err != nil {
		return nil, err
	}
	log.Debugf("using mite account %s", creds.Account)
	return api.NewClient(creds, e.ClientOpts...), nil
}

type lister func(ctx context.Context) ([]resolver.Candidate, error)

func projectLister(c *api.Client) lister {
	return func(ctx context.Context) ([]resolver.Candidate, error) {
		projects, err := c.Projects(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		return resolver.FromProjects(projects), nil
	}
}

func serviceLister(c *api.Client) lister {
	return func(ctx context.Context) ([]resolver.Candidate, error) {
		services, err := c.Services(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list services: %w", err)
		}
		return resolver.FromServices(services), nil
	}
}

// resolveID turns a name or numeric ID into an ID. Numeric queries never
// hit the API. When nothing matches, the listing is fetched again and
// printed to w before the error is returned.
func resolveID(ctx context.Context, w io.Writer, kind, query string, list lister) (int, error) {
	if id, ok := resolver.NumericID(query); ok {
		return id, nil
	}

	candidates, err := list(ctx)
	if err != nil {
		return 0, err
	}

	id, err := resolver.Resolve(kind, query, candidates)
	if err == nil {
		return id, nil
	}

	available, listErr := list(ctx)
	if listErr != nil {
		log.Debugf("failed to list available %ss: %v", kind, listErr)
		return 0, err
	}
	printCandidates(w, kind, available)
	return 0, err
}

func printCandidates(w io.Writer, kind string, candidates []resolver.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintf(w, "No %ss available.\n", kind)
		return
	}
	fmt.Fprintf(w, "Available %ss:\n", kind)
	for i, c := range candidates {
		if i >= maxCandidates {
			fmt.Fprintf(w, "  ... and %d more\n", len(candidates)-maxCandidates)
			break
		}
		fmt.Fprintf(w, "  %d: %s\n", c.ID, c.Name)
	}
}
