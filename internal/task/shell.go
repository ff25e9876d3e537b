package task

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

// outputCap truncates captured stdout/stderr before logging, mirroring the
// reference implementation's output-size guard.
const outputCap = 16 * 1024

// ShellHandler runs command.Command through the host shell. There is no
// third-party process-execution library anywhere in the example corpus, so
// this is the one handler built directly on the standard library
// (os/exec): spawning a subprocess is an operating-system boundary
// operation no ecosystem wrapper changes the shape of.
type ShellHandler struct{}

func (ShellHandler) TaskType() string { return domain.TaskTypeShellCommand }

func (ShellHandler) Handle(ctx context.Context, payload domain.TaskPayload) error {
	p, ok := payload.(domain.ShellCommandTask)
	if !ok {
		return fmt.Errorf("shell_command: unexpected payload type %T", payload)
	}
	if p.Command == "" {
		return fmt.Errorf("shell_command: empty command")
	}

	shell, flag := "/bin/sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd.exe", "/C"
	}

	cmd := exec.CommandContext(ctx, shell, flag, p.Command)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	output := out.Bytes()
	if len(output) > outputCap {
		output = output[:outputCap]
	}
	slog.Debug("shell_command finished", "command", p.Command, "output", string(output), "error", err)
	if err != nil {
		return fmt.Errorf("shell_command: %w: %s", err, string(output))
	}
	return nil
}
