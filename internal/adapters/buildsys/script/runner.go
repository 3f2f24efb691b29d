package script

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/ports"
)

// runner executes manifest commands through the shell, streaming output
// into the project's logger.
type runner struct {
	log     ports.Logger
	measure bool
}

func (r runner) run(ctx context.Context, dir string, env []string, command string) error {
	r.log.Info("running command", "command", command)

	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // build commands come from the project manifest
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = &logWriter{logger: r.log, level: "info"}
	cmd.Stderr = &logWriter{logger: r.log, level: "error"}

	start := time.Now()
	err := cmd.Run()
	if r.measure {
		r.log.Info("command finished", "command", command, "duration", time.Since(start).String())
	}

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "command", command)
		return zerr.With(wrapped, "exit_code", exitCode)
	}
	return nil
}

type logWriter struct {
	logger ports.Logger
	level  string
}

// Write splits output into lines for the logger. Partial lines are not
// buffered; build output is line-oriented in practice.
func (w *logWriter) Write(p []byte) (int, error) {
	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		if w.level == "info" {
			w.logger.Info(line)
		} else {
			w.logger.Error(zerr.New(line))
		}
	}
	return len(p), nil
}
