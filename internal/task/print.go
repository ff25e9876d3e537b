package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

// PrintHandler logs its message at info level. Grounded on the reference
// implementation's print task, which exists for smoke-testing a deployment
// end to end rather than doing real work.
type PrintHandler struct{}

func (PrintHandler) TaskType() string { return domain.TaskTypePrint }

func (PrintHandler) Handle(_ context.Context, payload domain.TaskPayload) error {
	p, ok := payload.(domain.PrintTask)
	if !ok {
		return fmt.Errorf("print: unexpected payload type %T", payload)
	}
	slog.Info("print task fired", "message", p.Message)
	return nil
}
