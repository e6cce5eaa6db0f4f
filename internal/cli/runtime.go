package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/like-buer/blog/internal/config"
	dbpkg "github.com/like-buer/blog/internal/db"
	"github.com/like-buer/blog/internal/snapshot"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

type commandRuntime struct {
	Config     config.Config
	ConfigPath string
	Logger     *slog.Logger
}

type runtimeKey struct{}

func initRuntime(cmd *cobra.Command, flags *globalFlags) error {
	cfg, path, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if level := strings.TrimSpace(flags.logLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	rt := &commandRuntime{Config: cfg, ConfigPath: path, Logger: logger}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, runtimeKey{}, rt))
	return nil
}

func runtimeFromCommand(cmd *cobra.Command) (*commandRuntime, error) {
	if ctx := cmd.Context(); ctx != nil {
		if rt, ok := ctx.Value(runtimeKey{}).(*commandRuntime); ok && rt != nil {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("internal: command runtime is not initialized")
}

// openHistory opens the configured build history database. It returns a nil
// database when history is not configured.
func (rt *commandRuntime) openHistory(ctx context.Context) (*sql.DB, error) {
	if rt.Config.DBPath == "" {
		return nil, nil
	}
	db, err := dbpkg.OpenHistory(ctx, rt.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open build history %s: %w", rt.Config.DBPath, err)
	}
	return db, nil
}

func (rt *commandRuntime) requireHistory(ctx context.Context) (*sql.DB, error) {
	if rt.Config.DBPath == "" {
		return nil, fmt.Errorf("build history is not configured (set dbPath in %s or %s)", rt.ConfigPath, config.EnvDBPath)
	}
	return rt.openHistory(ctx)
}

// snapshotStore returns the page-data snapshot store kept next to the history
// database, or nil when history is not configured.
func (rt *commandRuntime) snapshotStore() *snapshot.Store {
	if rt.Config.DBPath == "" {
		return nil
	}
	return snapshot.NewStore(filepath.Join(filepath.Dir(rt.Config.DBPath), "snapshots", "sha256"))
}
