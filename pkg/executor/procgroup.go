//go:build !windows

package executor

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// killGrace is the pause between SIGTERM and SIGKILL.
const killGrace = 100 * time.Millisecond

// processGroupCleanup kills the whole go test process tree on cancellation.
// go test spawns the compiled test binary and the browser driver, killing only
// the direct child would leave them running.
type processGroupCleanup struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
	err  error
}

// setupProcessGroup puts the command into its own process group.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// newProcessGroupCleanup watches cancelCh for the started cmd. Wait must be called to release the watcher.
func newProcessGroupCleanup(cmd *exec.Cmd, cancelCh <-chan struct{}) *processGroupCleanup {
	pg := &processGroupCleanup{cmd: cmd, done: make(chan struct{})}
	go func() {
		select {
		case <-cancelCh:
			_ = pg.kill()
		case <-pg.done:
		}
	}()
	return pg
}

// kill sends SIGTERM, then SIGKILL after killGrace, to the process group.
// A group that is already gone is not an error.
func (pg *processGroupCleanup) kill() error {
	if pg.cmd.Process == nil {
		return nil
	}
	pgid := -pg.cmd.Process.Pid

	if err := syscall.Kill(pgid, syscall.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return fmt.Errorf("sigterm group %d: %w", -pgid, err)
	}

	time.Sleep(killGrace)

	if err := syscall.Kill(pgid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("sigkill group %d: %w", -pgid, err)
	}
	return nil
}

// Wait waits for the command and stops the cancel watcher. Repeated calls return the first result.
func (pg *processGroupCleanup) Wait() error {
	pg.once.Do(func() {
		pg.err = pg.cmd.Wait()
		close(pg.done)
		if pg.err != nil {
			pg.err = fmt.Errorf("command wait: %w", pg.err)
		}
	})
	return pg.err
}
