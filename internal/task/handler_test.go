package task

import (
	"context"
	"testing"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

func TestRegistryDispatchesToRegisteredHandler(t *testing.T) {
	reg := NewRegistry()
	reg.Register(PrintHandler{})

	err := reg.Dispatch(context.Background(), domain.PrintTask{Message: "hi"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
}

func TestRegistryDispatchErrorsOnMissingHandler(t *testing.T) {
	reg := NewRegistry()
	err := reg.Dispatch(context.Background(), domain.ShellCommandTask{Command: "echo hi"})
	if err == nil {
		t.Fatal("expected error for unregistered task type")
	}
}

func TestRegistryTagsReflectsRegistrations(t *testing.T) {
	reg := NewRegistry()
	reg.Register(PrintHandler{})
	reg.Register(ShellHandler{})

	tags := reg.Tags()
	if len(tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(tags))
	}
}

type namedPrintHandler struct {
	PrintHandler
	name string
}

func TestRegistryGetLastRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(namedPrintHandler{name: "first"})
	reg.Register(namedPrintHandler{name: "second"})

	h, ok := reg.Get(domain.TaskTypePrint)
	if !ok {
		t.Fatal("expected handler to be found")
	}
	if h.TaskType() != domain.TaskTypePrint {
		t.Fatalf("task type = %q", h.TaskType())
	}
	if got := h.(namedPrintHandler).name; got != "second" {
		t.Fatalf("handler = %q, want second", got)
	}
}
