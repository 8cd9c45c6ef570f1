package daemonrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"laneboard/internal/clients"
	"laneboard/internal/config"
	"laneboard/internal/daemon"
	"laneboard/internal/logging"
)

const (
	runLogPrefix   = "laneboardd-"
	runLogPointer  = "laneboardd.log"
	debugLogSubdir = "debug"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	// Diagnostic tees a debug-level JSON log into <log_dir>/debug.
	Diagnostic bool
	// Ready, when set, receives the bound API address once serving begins.
	Ready func(addr string)
}

// Run starts the laneboard daemon and blocks until ctx is cancelled, a
// termination signal arrives, or the API server fails.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return errors.New("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runStamp := time.Now().UTC().Format("20060102T150405.000Z")
	runID := uuid.NewString()
	logger, logPath, err := buildLogger(cfg, opts, runStamp, runID)
	if err != nil {
		return err
	}

	if cfg.Paths.LogDir != "" {
		if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
			fmt.Fprintf(os.Stderr, "warn: unable to update %s link: %v\n", runLogPointer, err)
		}
		logging.PruneLogs(logger, cfg.Paths.LogDir, runLogPrefix+"*.log", cfg.Logging.RetentionDays, logPath)
		logging.PruneLogs(logger, filepath.Join(cfg.Paths.LogDir, debugLogSubdir), runLogPrefix+"*.json", cfg.Logging.RetentionDays)
	}

	store, err := clients.Open(cfg)
	if err != nil {
		logger.Error("open client store", logging.Error(err))
		return err
	}
	defer store.Close()

	if err := seedStore(signalCtx, store, cfg, logger); err != nil {
		return err
	}

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
		)
		return err
	}
	defer d.Stop()

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	if opts.Ready != nil {
		opts.Ready(d.Addr())
	}

	g, gctx := errgroup.WithContext(signalCtx)
	g.Go(func() error {
		return d.Wait(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("laneboard daemon shutting down")
		d.Stop()
		return nil
	})
	return g.Wait()
}

func buildLogger(cfg *config.Config, opts Options, runStamp, runID string) (*slog.Logger, string, error) {
	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	outputs := []string{"stdout"}
	errorOutputs := []string{"stderr"}
	var logPath string
	if cfg.Paths.LogDir != "" {
		logPath = filepath.Join(cfg.Paths.LogDir, runLogPrefix+runStamp+".log")
		outputs = append(outputs, logPath)
		errorOutputs = append(errorOutputs, logPath)
	}

	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: errorOutputs,
		Development:      opts.Development,
		RunID:            runID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}

	if opts.Diagnostic && cfg.Paths.LogDir != "" {
		debugPath := filepath.Join(cfg.Paths.LogDir, debugLogSubdir, runLogPrefix+runStamp+".json")
		debugLogger, debugErr := logging.New(logging.Options{
			Level:       "debug",
			Format:      "json",
			OutputPaths: []string{debugPath},
			Development: true,
			RunID:       runID,
		})
		if debugErr != nil {
			fmt.Fprintf(os.Stderr, "warn: unable to initialize debug logger: %v\n", debugErr)
		} else {
			logger = logging.Tee(logger, debugLogger.Handler())
			logger.Info("diagnostic mode enabled",
				logging.String(logging.FieldEventType, "diagnostic_mode_enabled"),
				logging.String("debug_log_path", debugPath),
			)
		}
	}
	return logger, logPath, nil
}

func seedStore(ctx context.Context, store *clients.Store, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Seed.Path == "" {
		return nil
	}
	inputs, err := clients.LoadSeed(cfg.Seed.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("seed file missing; starting with current data", logging.String("path", cfg.Seed.Path))
			return nil
		}
		return err
	}
	inserted, err := store.SeedIfEmpty(ctx, inputs)
	if err != nil {
		return fmt.Errorf("seed clients: %w", err)
	}
	if inserted > 0 {
		logger.Info("seeded client board",
			logging.String(logging.FieldEventType, "clients_seeded"),
			logging.Int("count", inserted),
			logging.String("path", cfg.Seed.Path),
		)
	}
	return nil
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, runLogPointer)
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

// CurrentLogPath returns the pointer that always names the latest run log.
func CurrentLogPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, runLogPointer)
}

// ReadPIDFile returns the pid recorded by a running daemon.
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(string(bytes.TrimSpace(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pid file %s is malformed", path)
	}
	return pid, nil
}
