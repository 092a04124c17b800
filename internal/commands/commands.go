// Package commands builds the daily command tree.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"daily/internal/auth"
	"daily/internal/config"
	"daily/internal/storage"
	"daily/internal/task"
)

var configPath string

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "daily",
		Short:         "A daily planner for the terminal: tasks, schedule views and a bit of motivation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the config file (default $DAILY_CONFIG or ~/.config/daily/config.toml).")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addTUI(topLevel)
	addAdd(topLevel)
	addList(topLevel)
	addDone(topLevel)
	addRemove(topLevel)
	addLogin(topLevel)
	addLogout(topLevel)
	addWhoami(topLevel)
	addVersion(topLevel)
}

// env is what one invocation runs on: config, the local store and the
// auth client sharing it.
type env struct {
	cfg    config.Config
	logger *log.Logger
	store  storage.Store
	gotrue *auth.GoTrue
}

func loadEnv(logOut io.Writer) (*env, error) {
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "daily: ", log.LstdFlags)

	storePath := cfg.DBPath
	if cfg.Store == config.StoreDisk {
		storePath = cfg.DiskPath
	}
	store, err := storage.Open(cfg.Store, storePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	timeout, err := cfg.AuthTimeout()
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	gotrue, err := auth.NewGoTrue(auth.Options{
		URL:        cfg.Auth.URL,
		APIKey:     cfg.Auth.AnonKey,
		HTTPClient: &http.Client{Timeout: timeout},
		Store:      store,
		Logger:     logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, store: store, gotrue: gotrue}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// requireUser gates task commands behind a signed-in session.
func (e *env) requireUser(ctx context.Context) (*auth.User, error) {
	s, err := e.gotrue.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: run 'daily login' first", auth.ErrNoSession)
	}
	u, err := e.gotrue.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: run 'daily login' first", auth.ErrNoSession)
	}
	return u, nil
}

func (e *env) tasks(ctx context.Context) (*task.Model, error) {
	if _, err := e.requireUser(ctx); err != nil {
		return nil, err
	}
	return task.Load(e.store, e.logger)
}

// withTasks opens the environment, checks the session and hands fn the
// task model.
func withTasks(ctx context.Context, fn func(e *env, m *task.Model) error) error {
	e, err := loadEnv(nil)
	if err != nil {
		return err
	}
	defer e.Close()
	m, err := e.tasks(ctx)
	if err != nil {
		return err
	}
	return fn(e, m)
}

var errAmbiguousID = errors.New("ambiguous task id")

// resolveID expands a unique id prefix, as printed by list, to a full id.
func resolveID(m *task.Model, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if _, ok := m.Get(prefix); ok {
		return prefix, nil
	}
	var found string
	for _, t := range m.Tasks() {
		if prefix != "" && strings.HasPrefix(t.ID, prefix) {
			if found != "" {
				return "", fmt.Errorf("%w: %q", errAmbiguousID, prefix)
			}
			found = t.ID
		}
	}
	if found == "" {
		return "", fmt.Errorf("%w: %q", task.ErrNotFound, prefix)
	}
	return found, nil
}

func requireID(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("requires a task id")
	}
	return nil
}
