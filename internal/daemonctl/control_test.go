package daemonctl_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"laneboard/internal/api"
	"laneboard/internal/daemonctl"
)

type fakeChecker struct {
	readyAfter int32
	calls      atomic.Int32
}

func (f *fakeChecker) Health(context.Context) (*api.Health, error) {
	if f.calls.Add(1) > f.readyAfter {
		return &api.Health{Status: "ok"}, nil
	}
	return nil, errors.New("connection refused")
}

func writePID(t *testing.T, pid int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "laneboard.pid")
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	return path
}

func TestProcessInfo(t *testing.T) {
	pid, running := daemonctl.ProcessInfo(writePID(t, os.Getpid()))
	if !running || pid != os.Getpid() {
		t.Fatalf("ProcessInfo(self) = %d,%v", pid, running)
	}

	if _, running := daemonctl.ProcessInfo(filepath.Join(t.TempDir(), "missing.pid")); running {
		t.Fatal("expected missing pid file to report not running")
	}

	pid, running = daemonctl.ProcessInfo(writePID(t, 999999999))
	if running || pid != 999999999 {
		t.Fatalf("ProcessInfo(stale) = %d,%v", pid, running)
	}
}

func TestWaitForReady(t *testing.T) {
	checker := &fakeChecker{readyAfter: 2}
	if err := daemonctl.WaitForReady(context.Background(), checker, 2*time.Second); err != nil {
		t.Fatalf("WaitForReady: %v", err)
	}
	if got := checker.calls.Load(); got != 3 {
		t.Fatalf("expected 3 health probes, got %d", got)
	}
}

func TestWaitForReadyTimesOut(t *testing.T) {
	checker := &fakeChecker{readyAfter: 1 << 30}
	err := daemonctl.WaitForReady(context.Background(), checker, 250*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout")
	}
}

func TestEnsureStartedAlreadyRunning(t *testing.T) {
	pidPath := writePID(t, os.Getpid())
	result, err := daemonctl.EnsureStarted(context.Background(), pidPath, "", daemonctl.LaunchOptions{}, &fakeChecker{}, time.Second)
	if err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	if result.State != daemonctl.StartStateAlreadyRunning || result.PID != os.Getpid() {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestLaunchRequiresExecutable(t *testing.T) {
	if err := daemonctl.Launch("  ", daemonctl.LaunchOptions{}); err == nil {
		t.Fatal("expected error for empty executable")
	}
}

func TestStopAndTerminate(t *testing.T) {
	proc := exec.Command("sleep", "30")
	if err := proc.Start(); err != nil {
		t.Skipf("sleep unavailable: %v", err)
	}
	// Reap the child so the liveness probe sees it exit.
	done := make(chan struct{})
	go func() {
		_ = proc.Wait()
		close(done)
	}()

	pidPath := writePID(t, proc.Process.Pid)
	result, err := daemonctl.StopAndTerminate(pidPath, 2*time.Second)
	if err != nil {
		t.Fatalf("StopAndTerminate: %v", err)
	}
	if result.PID != proc.Process.Pid || result.ForcedKill {
		t.Fatalf("unexpected result %#v", result)
	}
	<-done
	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Fatalf("expected pid file removed, stat err=%v", err)
	}
}

func TestStopAndTerminateNotRunning(t *testing.T) {
	pidPath := writePID(t, 999999999)
	if _, err := daemonctl.StopAndTerminate(pidPath, time.Second); !errors.Is(err, daemonctl.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Fatalf("expected stale pid file removed, stat err=%v", err)
	}
}

func TestStopRefusesCurrentProcess(t *testing.T) {
	if _, err := daemonctl.StopAndTerminate(writePID(t, os.Getpid()), time.Second); err == nil {
		t.Fatal("expected refusal to signal current process")
	}
}
