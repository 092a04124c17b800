package commands

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily/internal/auth"
	"daily/internal/form"
	"daily/internal/storage"
	"daily/internal/task"
)

func fakeAuth(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"access_token":"a-1","refresh_token":"r-1","token_type":"bearer","expires_in":3600,
			"user":{"id":"u-1","email":"ada@example.com"}}`)
	})
	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer a-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"id":"u-1","email":"ada@example.com"}`)
	})
	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// daily runs one invocation against the config in dir.
func daily(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setup(t *testing.T) string {
	t.Helper()
	srv := fakeAuth(t)
	t.Setenv("SUPABASE_URL", srv.URL)
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("DAILY_DB_PATH", "")
	return t.TempDir()
}

func TestTaskCommandsNeedASession(t *testing.T) {
	dir := setup(t)
	_, err := daily(t, dir, "add", "Write report")
	assert.ErrorIs(t, err, auth.ErrNoSession)

	_, err = daily(t, dir, "whoami")
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestCommandLifecycle(t *testing.T) {
	dir := setup(t)

	out, err := daily(t, dir, "login", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as ada@example.com")

	out, err = daily(t, dir, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com (u-1)")

	out, err = daily(t, dir, "add", "Write", "report", "--priority", "high", "--date", "2024-06-14", "--start", "09:00", "--end", "10:00")
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.NotEmpty(t, fields)
	short := fields[len(fields)-1]

	out, err = daily(t, dir, "list", "--view", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "2024-06-14 09:00-10:00")
	assert.Contains(t, out, short)
	assert.Contains(t, out, "0/1 done")

	out, err = daily(t, dir, "list", "--view", "week", "--date", "2024-06-12")
	require.NoError(t, err)
	assert.Contains(t, out, "Friday, Jun 14 - 1 task")

	out, err = daily(t, dir, "done", short)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "All tasks complete")

	out, err = daily(t, dir, "rm", short)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	_, err = daily(t, dir, "rm", short)
	assert.ErrorIs(t, err, task.ErrNotFound)

	out, err = daily(t, dir, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	_, err = daily(t, dir, "list")
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestAddRejectsBadInput(t *testing.T) {
	dir := setup(t)
	_, err := daily(t, dir, "login", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)

	_, err = daily(t, dir, "add", "x", "--priority", "urgent")
	assert.ErrorIs(t, err, task.ErrInvalidPriority)

	_, err = daily(t, dir, "add", "x", "--date", "14/06/2024")
	assert.Error(t, err)

	_, err = daily(t, dir, "add", "x", "--start", "09:00")
	assert.ErrorIs(t, err, form.ErrIncompleteRange)

	_, err = daily(t, dir, "add", "x", "--end", "10:00")
	assert.ErrorIs(t, err, form.ErrIncompleteRange)

	_, err = daily(t, dir, "add", "   ")
	assert.ErrorIs(t, err, task.ErrEmptyText)

	_, err = daily(t, dir, "add")
	assert.Error(t, err)
}

func TestAddOptionsDraft(t *testing.T) {
	o := &addOptions{Category: "health", Priority: "low", Date: "2024-06-14", Time: "07:00"}
	c, err := o.draft("Run")
	require.NoError(t, err)
	in, err := c.Payload()
	require.NoError(t, err)
	assert.Equal(t, task.Input{Text: "Run", Category: task.Health, Priority: task.Low, ScheduledDate: "2024-06-14", ScheduledTime: "07:00"}, in)

	o.Start, o.End = "18:00", "19:00"
	c, err = o.draft("Gym")
	require.NoError(t, err)
	in, err = c.Payload()
	require.NoError(t, err)
	assert.Equal(t, "18:00", in.StartTime)
	assert.Equal(t, "19:00", in.EndTime)
}

func TestResolveID(t *testing.T) {
	m, err := task.Load(storage.NewMemory(), nil)
	require.NoError(t, err)
	ids := []string{"abc-1", "abd-2"}
	m.NewID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	for _, text := range []string{"one", "two"} {
		_, err := m.Create(task.Input{Text: text, Category: task.Work, Priority: task.Low})
		require.NoError(t, err)
	}

	id, err := resolveID(m, "abd")
	require.NoError(t, err)
	assert.Equal(t, "abd-2", id)

	id, err = resolveID(m, "abc-1")
	require.NoError(t, err)
	assert.Equal(t, "abc-1", id)

	_, err = resolveID(m, "ab")
	assert.ErrorIs(t, err, errAmbiguousID)

	_, err = resolveID(m, "zzz")
	assert.ErrorIs(t, err, task.ErrNotFound)
}
