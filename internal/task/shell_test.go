package task

import (
	"context"
	"runtime"
	"testing"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

func TestShellHandlerRunsSuccessfulCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell only")
	}
	h := ShellHandler{}
	err := h.Handle(context.Background(), domain.ShellCommandTask{Command: "exit 0"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
}

func TestShellHandlerReturnsErrorOnNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell only")
	}
	h := ShellHandler{}
	err := h.Handle(context.Background(), domain.ShellCommandTask{Command: "exit 7"})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
}

func TestShellHandlerRejectsEmptyCommand(t *testing.T) {
	h := ShellHandler{}
	err := h.Handle(context.Background(), domain.ShellCommandTask{Command: ""})
	if err == nil {
		t.Fatal("expected error for empty command")
	}
}
