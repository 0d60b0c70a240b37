package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/kvview/internal/log"
)

// Result is the fully buffered outcome of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes a command and buffers its output.
// Implemented by [Exec]; tests substitute their own.
type Runner interface {
	Capture(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// Exec is the os/exec backed Runner.
type Exec struct{}

// Capture implements Runner.
func (Exec) Capture(ctx context.Context, dir, name string, args ...string) (Result, error) {
	return Capture(ctx, dir, name, args...)
}

// Capture runs name with args in dir and returns stdout, stderr and the exit
// code. A non-zero exit is not an error; failing to start the process, or
// context cancellation, is.
func Capture(ctx context.Context, dir, name string, args ...string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	done(time.Since(start))

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("start %s: %w", name, err)
	}
	return res, nil
}

// OutputContext executes a command and returns stdout, with stderr in the error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	res, err := Capture(ctx, dir, name, args...)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		if errMsg := strings.TrimSpace(string(res.Stderr)); errMsg != "" {
			return nil, fmt.Errorf("%s", errMsg)
		}
		return nil, fmt.Errorf("%s exited with status %d", name, res.ExitCode)
	}
	return res.Stdout, nil
}
