package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/sfn/types"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

const (
	stepFnPollInterval = 3 * time.Second
	stepFnPollTimeout  = 15 * time.Minute
)

// StepFnClient is the subset of *sfn.Client this handler depends on, so
// tests can supply a fake.
type StepFnClient interface {
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
	DescribeExecution(ctx context.Context, params *sfn.DescribeExecutionInput, optFns ...func(*sfn.Options)) (*sfn.DescribeExecutionOutput, error)
}

// StepFnHandler starts an AWS Step Functions execution and polls it to
// completion.
type StepFnHandler struct {
	Client StepFnClient
}

// NewStepFnHandler loads AWS credentials from the default provider chain
// (environment, shared config, EC2/ECS role) and constructs an sfn client.
func NewStepFnHandler(ctx context.Context) (*StepFnHandler, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("stepfn: loading aws config: %w", err)
	}
	return &StepFnHandler{Client: sfn.NewFromConfig(cfg)}, nil
}

func (h *StepFnHandler) TaskType() string { return domain.TaskTypeAWSStepFn }

func (h *StepFnHandler) Handle(ctx context.Context, payload domain.TaskPayload) error {
	cfg, ok := payload.(domain.AWSStepFnTask)
	if !ok {
		return fmt.Errorf("aws_stepfn: unexpected payload type %T", payload)
	}

	input := string(cfg.Input)
	if input == "" {
		input = "{}"
	}

	started, err := h.Client.StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(cfg.ARN),
		Input:           aws.String(input),
	})
	if err != nil {
		return fmt.Errorf("aws_stepfn: StartExecution: %w", err)
	}
	slog.Info("stepfn execution started", "arn", cfg.ARN, "execution_arn", aws.ToString(started.ExecutionArn))

	return h.pollUntilTerminal(ctx, aws.ToString(started.ExecutionArn))
}

func (h *StepFnHandler) pollUntilTerminal(ctx context.Context, executionArn string) error {
	deadline := time.Now().Add(stepFnPollTimeout)
	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("aws_stepfn: execution %s did not reach a terminal status before the poll deadline", executionArn)
		}

		desc, err := h.Client.DescribeExecution(ctx, &sfn.DescribeExecutionInput{
			ExecutionArn: aws.String(executionArn),
		})
		if err != nil {
			return fmt.Errorf("aws_stepfn: DescribeExecution: %w", err)
		}

		switch desc.Status {
		case types.ExecutionStatusSucceeded:
			return nil
		case types.ExecutionStatusFailed, types.ExecutionStatusTimedOut, types.ExecutionStatusAborted:
			return fmt.Errorf("aws_stepfn: execution %s ended with status %s", executionArn, desc.Status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stepFnPollInterval):
		}
	}
}
