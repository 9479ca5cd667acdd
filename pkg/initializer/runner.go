// SPDX-License-Identifier: Apache-2.0
package initializer

import (
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/charmbracelet/log"
)

// Invocation describes one run of the external build tool
type Invocation struct {
	Command string
	Args    []string
	Dir     string
	Env     []string  // Appended to the current process environment
	Output  io.Writer // Receives combined stdout and stderr
}

// Runner executes the external build tool
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExecRunner runs the tool as a child process
type ExecRunner struct{}

// Run starts the command and blocks until it exits or ctx is cancelled
func (ExecRunner) Run(ctx context.Context, inv Invocation) error {
	cmd := exec.Command(inv.Command, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.Stdin = nil
	if inv.Output != nil {
		cmd.Stdout = inv.Output
		cmd.Stderr = inv.Output
	}

	log.Debugf("initializer: exec %s %v in %s", inv.Command, inv.Args, inv.Dir)
	return runCommandWithProcessGroup(ctx, cmd)
}

// runCommandWithProcessGroup runs a command and ensures all child processes are killed on cancellation
func runCommandWithProcessGroup(ctx context.Context, cmd *exec.Cmd) error {
	// Gradle forks daemons and workers; a fresh group lets us kill them together
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			// Negative PID targets the whole process group
			syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}
