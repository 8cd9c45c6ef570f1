// Package daemonctl launches, probes, and stops a background laneboard server
// process identified by its pid file.
package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"laneboard/internal/api"
	"laneboard/internal/daemonrun"
)

const pollInterval = 100 * time.Millisecond

// ErrNotRunning indicates no live server owns the pid file.
var ErrNotRunning = errors.New("server not running")

// HealthChecker is the subset of the API client used to detect readiness.
type HealthChecker interface {
	Health(ctx context.Context) (*api.Health, error)
}

// LaunchOptions controls how a detached server is started.
type LaunchOptions struct {
	ConfigPath string
	LogLevel   string
	Diagnostic bool
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures start orchestration state.
type StartResult struct {
	State StartState
	PID   int
}

// StopResult captures the stop outcome.
type StopResult struct {
	PID        int
	ForcedKill bool
}

// ProcessInfo reads pidPath and probes the recorded process with signal 0.
// A pid file naming a dead process yields that pid and false.
func ProcessInfo(pidPath string) (int, bool) {
	pid, err := daemonrun.ReadPIDFile(pidPath)
	if err != nil {
		return 0, false
	}
	return pid, alive(pid)
}

func alive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// Launch starts a detached `serve` process from executablePath.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"serve"}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		args = append(args, "--log-level", level)
	}
	if opts.Diagnostic {
		args = append(args, "--diagnostic")
	}

	proc := exec.Command(executablePath, args...)
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch server: %w", err)
	}
	return proc.Process.Release()
}

// WaitForReady polls the health endpoint until it answers or timeout elapses.
// A degraded store still counts as ready.
func WaitForReady(ctx context.Context, checker HealthChecker, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		health, err := checker.Health(ctx)
		if health != nil {
			return nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			if lastErr == nil {
				lastErr = ctx.Err()
			}
			return fmt.Errorf("server failed to start: %w", lastErr)
		case <-ticker.C:
		}
	}
}

// EnsureStarted launches a server unless the pid file names a live one, then
// waits for its API to answer.
func EnsureStarted(ctx context.Context, pidPath, executablePath string, opts LaunchOptions, checker HealthChecker, timeout time.Duration) (StartResult, error) {
	if pid, running := ProcessInfo(pidPath); running {
		return StartResult{State: StartStateAlreadyRunning, PID: pid}, nil
	}
	if err := Launch(executablePath, opts); err != nil {
		return StartResult{}, err
	}
	if err := WaitForReady(ctx, checker, timeout); err != nil {
		return StartResult{}, err
	}
	pid, _ := ProcessInfo(pidPath)
	return StartResult{State: StartStateStarted, PID: pid}, nil
}

// StopAndTerminate sends SIGTERM to the server named by pidPath and escalates
// to SIGKILL if it is still alive after gracePeriod. The pid file is removed
// once the process is gone.
func StopAndTerminate(pidPath string, gracePeriod time.Duration) (StopResult, error) {
	pid, running := ProcessInfo(pidPath)
	if !running {
		if pid != 0 {
			_ = os.Remove(pidPath)
		}
		return StopResult{}, ErrNotRunning
	}
	if pid == os.Getpid() {
		return StopResult{}, fmt.Errorf("refusing to signal current process (pid %d)", pid)
	}

	result := StopResult{PID: pid}
	if err := unix.Kill(pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return result, fmt.Errorf("signal server process %d: %w", pid, err)
	}
	if !waitForExit(pid, gracePeriod) {
		if err := unix.Kill(pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
			return result, fmt.Errorf("kill server process %d: %w", pid, err)
		}
		result.ForcedKill = true
		if !waitForExit(pid, gracePeriod) {
			return result, fmt.Errorf("server process %d did not exit", pid)
		}
	}

	if err := os.Remove(pidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return result, fmt.Errorf("remove pid file %q: %w", pidPath, err)
	}
	return result, nil
}

func waitForExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !alive(pid) {
			return true
		}
		time.Sleep(pollInterval)
	}
	return !alive(pid)
}
