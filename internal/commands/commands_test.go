package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sdpower/mite-go/internal/api"
	"github.com/sdpower/mite-go/internal/clock"
	"github.com/sdpower/mite-go/internal/config"
	"github.com/sdpower/mite-go/internal/prompt"
	"github.com/sdpower/mite-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMite struct {
	t        *testing.T
	projects string
	services string
	entries  string
	calls    map[string]int
	queries  []string
	created  map[string]any
}

func newFakeMite(t *testing.T) *fakeMite {
	return &fakeMite{
		t:        t,
		projects: `[{"project": {"id": 1, "name": "Website"}}, {"project": {"id": 2, "name": "Website Relaunch"}}]`,
		services: `[{"service": {"id": 10, "name": "Development"}}]`,
		entries:  `[]`,
		calls:    make(map[string]int),
	}
}

func (f *fakeMite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls[r.Method+" "+r.URL.Path]++
	assert.Equal(f.t, "test-key", r.Header.Get("X-MiteApiKey"))

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/projects.json":
		fmt.Fprint(w, f.projects)
	case r.Method == http.MethodGet && r.URL.Path == "/services.json":
		fmt.Fprint(w, f.services)
	case r.Method == http.MethodGet && r.URL.Path == "/time_entries.json":
		f.queries = append(f.queries, r.URL.RawQuery)
		fmt.Fprint(w, f.entries)
	case r.Method == http.MethodPost && r.URL.Path == "/time_entries.json":
		var body map[string]map[string]any
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.created = body["time_entry"]
		date, _ := f.created["date_at"].(string)
		if date == "" {
			date = "2025-01-15"
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"time_entry": {"id": 99, "date_at": %q, "minutes": %v, "note": %q, "project_name": "Website"}}`,
			date, f.created["minutes"], f.created["note"])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func testEnv(t *testing.T, f *fakeMite) *Env {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	configPath := filepath.Join(t.TempDir(), ".mite_config.json")
	return &Env{
		Clock: &clock.MockClock{FixedNow: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)},
		ConfigPath: func() (string, error) {
			return configPath, nil
		},
		Credentials: func() (config.Credentials, error) {
			return config.Credentials{Account: "acme", APIKey: "test-key"}, nil
		},
		ClientOpts:  []api.Option{api.WithBaseURL(srv.URL)},
		Interactive: func() bool { return false },
	}
}

func run(t *testing.T, env *Env, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(env)
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestAddResolvesNamesAndCreatesEntry(t *testing.T) {
	f := newFakeMite(t)
	env := testEnv(t, f)

	out, _, err := run(t, env, "add", "1h30m", "Code review", "--project", "website", "--service", "dev", "--date", "2025-01-14")
	require.NoError(t, err)

	assert.Equal(t, float64(90), f.created["minutes"])
	assert.Equal(t, "Code review", f.created["note"])
	assert.Equal(t, "2025-01-14", f.created["date_at"])
	assert.Equal(t, float64(1), f.created["project_id"])
	assert.Equal(t, float64(10), f.created["service_id"])

	assert.Contains(t, out, "✓ Time entry created")
	assert.Contains(t, out, "Date:     2025-01-14")
	assert.Contains(t, out, "Duration: 1h 30m (90 minutes)")
	assert.Contains(t, out, "Project:  Website")
	assert.NotContains(t, out, "Service:")
}

func TestAddNumericIDsSkipLookup(t *testing.T) {
	f := newFakeMite(t)
	env := testEnv(t, f)

	_, _, err := run(t, env, "add", " 45 ", "Standup", "-p", "7", "-s", "8")
	require.NoError(t, err)

	assert.Zero(t, f.calls["GET /projects.json"])
	assert.Zero(t, f.calls["GET /services.json"])
	assert.Equal(t, float64(7), f.created["project_id"])
	assert.Equal(t, float64(45), f.created["minutes"])
	assert.NotContains(t, f.created, "date_at")
}

func TestAddInvalidDuration(t *testing.T) {
	f := newFakeMite(t)
	_, _, err := run(t, testEnv(t, f), "add", "bogus", "note")
	require.ErrorIs(t, err, types.ErrInvalidDurationFormat)
	assert.Contains(t, err.Error(), "bogus")
	assert.Empty(t, f.calls)
}

func TestAddInvalidDate(t *testing.T) {
	f := newFakeMite(t)
	_, _, err := run(t, testEnv(t, f), "add", "30", "note", "--date", "15.01.2025")
	assert.ErrorIs(t, err, types.ErrInvalidFormat)
	assert.Empty(t, f.calls)
}

func TestAddUnknownProjectListsCandidates(t *testing.T) {
	f := newFakeMite(t)
	var b strings.Builder
	b.WriteString("[")
	for i := 1; i <= 12; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"project": {"id": %d, "name": "Project %d"}}`, i, i)
	}
	b.WriteString("]")
	f.projects = b.String()

	_, stderr, err := run(t, testEnv(t, f), "add", "30", "note", "--project", "zzz")
	require.ErrorIs(t, err, types.ErrNameResolutionFailed)
	assert.Contains(t, err.Error(), `"zzz"`)

	assert.Equal(t, 2, f.calls["GET /projects.json"])
	assert.Zero(t, f.calls["POST /time_entries.json"])
	assert.Contains(t, stderr, "Available projects:")
	assert.Contains(t, stderr, "  10: Project 10")
	assert.NotContains(t, stderr, "Project 11")
	assert.Contains(t, stderr, "... and 2 more")
}

func TestAddRequiresArgs(t *testing.T) {
	_, _, err := run(t, testEnv(t, newFakeMite(t)), "add", "30")
	assert.Error(t, err)
}

func TestMissingCredentials(t *testing.T) {
	f := newFakeMite(t)
	env := testEnv(t, f)
	env.Credentials = func() (config.Credentials, error) {
		return config.Credentials{}, types.ConfigError{Missing: []string{"account", "api_key"}}
	}

	_, _, err := run(t, env, "list", "projects")
	assert.ErrorIs(t, err, types.ErrConfigurationMissing)
	assert.Empty(t, f.calls)
}

func TestTimesheetDefaultsToMonthCalendar(t *testing.T) {
	f := newFakeMite(t)
	f.entries = `[
		{"time_entry": {"id": 1, "date_at": "2025-01-02", "minutes": 480, "note": "a"}},
		{"time_entry": {"id": 2, "date_at": "2025-01-03", "minutes": 420, "note": "b"}}
	]`

	out, _, err := run(t, testEnv(t, f), "timesheet")
	require.NoError(t, err)

	require.Len(t, f.queries, 1)
	assert.Equal(t, "at=this_month", f.queries[0])
	assert.Contains(t, out, "January 2025")
	assert.Contains(t, out, "2 ●")
	assert.Contains(t, out, "1 OFF")
	assert.Contains(t, out, "Days worked:  2")
	assert.Contains(t, out, "Average/day:  7h 30m")
	// weekdays before the 15th without entries
	assert.Contains(t, out, "Off days:     8 (1/1, 6/1, 7/1, 8/1, 9/1, 10/1, 13/1, 14/1)")
}

func TestTimesheetLastMonth(t *testing.T) {
	f := newFakeMite(t)
	out, _, err := run(t, testEnv(t, f), "timesheet", "--last-month")
	require.NoError(t, err)
	assert.Equal(t, "at=last_month", f.queries[0])
	assert.Contains(t, out, "December 2024")
	assert.Contains(t, out, "No entries")
}

func TestTimesheetListView(t *testing.T) {
	f := newFakeMite(t)
	f.entries = `[
		{"time_entry": {"id": 1, "date_at": "2025-01-14", "minutes": 90, "note": "review", "project_name": "Website"}},
		{"time_entry": {"id": 2, "date_at": "2025-01-13", "minutes": 30, "note": ""}}
	]`

	out, _, err := run(t, testEnv(t, f), "timesheet", "--week", "--project", "relaunch", "--limit", "5")
	require.NoError(t, err)

	assert.Equal(t, "at=this_week&limit=5&project_id=2", f.queries[0])
	assert.Less(t, strings.Index(out, "2025-01-13"), strings.Index(out, "2025-01-14"))
	assert.Contains(t, out, "Website / No service  review")
	assert.Contains(t, out, "Total: 2h")
}

func TestTimesheetMonthAsList(t *testing.T) {
	f := newFakeMite(t)
	out, _, err := run(t, testEnv(t, f), "timesheet", "--month", "--list")
	require.NoError(t, err)
	assert.Equal(t, "No time entries found.\n", out)
}

func TestTimesheetExclusiveRanges(t *testing.T) {
	f := newFakeMite(t)
	_, _, err := run(t, testEnv(t, f), "timesheet", "--today", "--week")
	assert.Error(t, err)
	assert.Empty(t, f.calls)
}

func TestTimesheetJSON(t *testing.T) {
	f := newFakeMite(t)
	f.entries = `[{"time_entry": {"id": 1, "date_at": "2025-01-02", "minutes": 480, "note": "a"}}]`

	out, _, err := run(t, testEnv(t, f), "timesheet", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Range   string            `json:"range"`
		Month   int               `json:"month"`
		Entries []types.TimeEntry `json:"entries"`
		Summary struct {
			TotalMinutes int `json:"total_minutes"`
			DaysWorked   int `json:"days_worked"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "this_month", report.Range)
	assert.Equal(t, 1, report.Month)
	assert.Len(t, report.Entries, 1)
	assert.Equal(t, 480, report.Summary.TotalMinutes)
	assert.Equal(t, 1, report.Summary.DaysWorked)
}

func TestTimesheetAPIFailure(t *testing.T) {
	f := newFakeMite(t)
	env := testEnv(t, f)
	env.ClientOpts = []api.Option{api.WithBaseURL("http://127.0.0.1:1")}

	_, _, err := run(t, env, "timesheet", "--today")
	assert.ErrorIs(t, err, types.ErrAPIRequestFailed)
}

func TestListProjects(t *testing.T) {
	f := newFakeMite(t)
	out, _, err := run(t, testEnv(t, f), "list", "projects")
	require.NoError(t, err)
	assert.Contains(t, out, "Website Relaunch")
	assert.Contains(t, out, "ID")
	assert.Equal(t, 1, f.calls["GET /projects.json"])
}

func TestListServicesEmpty(t *testing.T) {
	f := newFakeMite(t)
	f.services = `[]`
	out, _, err := run(t, testEnv(t, f), "list", "services")
	require.NoError(t, err)
	assert.Equal(t, "No services found.\n", out)
}

func TestListServicesJSON(t *testing.T) {
	f := newFakeMite(t)
	out, _, err := run(t, testEnv(t, f), "list", "services", "-f", "json")
	require.NoError(t, err)

	var services []types.Service
	require.NoError(t, json.Unmarshal([]byte(out), &services))
	assert.Equal(t, []types.Service{{ID: 10, Name: "Development"}}, services)
}

func TestListUnknownKind(t *testing.T) {
	f := newFakeMite(t)
	_, _, err := run(t, testEnv(t, f), "list", "customers")
	assert.ErrorIs(t, err, types.ErrUnknownCommand)
	assert.Empty(t, f.calls)
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := run(t, testEnv(t, newFakeMite(t)), "frobnicate")
	assert.Error(t, err)
}

func TestConfigSavesFlags(t *testing.T) {
	env := testEnv(t, newFakeMite(t))
	out, _, err := run(t, env, "config", "--account", "acme", "--api-key", "secret")
	require.NoError(t, err)

	path, _ := env.ConfigPath()
	assert.Contains(t, out, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	creds, err := config.Load(config.Options{ConfigFile: path, EnvFile: filepath.Join(t.TempDir(), ".env"), SkipEnvironment: true})
	require.NoError(t, err)
	assert.Equal(t, config.Credentials{Account: "acme", APIKey: "secret"}, creds)
}

func TestConfigRequiresFlagsWithoutTerminal(t *testing.T) {
	env := testEnv(t, newFakeMite(t))
	_, _, err := run(t, env, "config", "--account", "acme")
	assert.ErrorIs(t, err, types.ErrInvalidFormat)

	path, _ := env.ConfigPath()
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigPromptsInTerminal(t *testing.T) {
	env := testEnv(t, newFakeMite(t))
	env.Interactive = func() bool { return true }
	env.Prompt = func(ctx context.Context, opts prompt.Options) (config.Credentials, error) {
		assert.Equal(t, "acme", opts.Initial.Account)
		return config.Credentials{Account: opts.Initial.Account, APIKey: "typed"}, nil
	}

	_, _, err := run(t, env, "config", "-a", "acme")
	require.NoError(t, err)

	path, _ := env.ConfigPath()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"api_key": "typed"`)
}
