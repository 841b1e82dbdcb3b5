package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"vaxetl/internal/infrastructure"
)

// Manager executes steps sequentially under a failure policy
type Manager struct {
	config    *Config
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// NewManager creates a manager. A nil config means HaltOnError and a nil
// telemetry disables spans and metrics.
func NewManager(config *Config, telemetry *infrastructure.Telemetry, logger *slog.Logger) *Manager {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{config: config, telemetry: telemetry, logger: logger}
}

// Execute runs steps in order and returns the final operation state.
func (m *Manager) Execute(ctx context.Context, operationID string, steps []Step) (*OperationState, error) {
	state := NewOperationState(operationID)
	for _, s := range steps {
		state.SetStage(s.ID(), NewStepState(s.ID(), s.Name()))
	}

	ctx, span := m.telemetry.StartSpan(ctx, "operation."+operationID,
		attribute.Int("operation.step_count", len(steps)),
		attribute.String("operation.policy", m.config.Policy.String()))
	defer span.End()

	state.Start()
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", operationID),
		slog.Int("stage_count", len(steps)),
		slog.String("policy", m.config.Policy.String()))

	err := m.executeSequential(ctx, state, steps)
	if err != nil {
		state.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.ErrorContext(ctx, "operation_failed",
			slog.String("operation_id", operationID),
			slog.Duration("duration", state.Duration()),
			slog.String("error", err.Error()))
		return state, err
	}

	state.Complete()
	m.logger.InfoContext(ctx, "operation_completed",
		slog.String("operation_id", operationID),
		slog.Duration("duration", state.Duration()))
	return state, nil
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	var failures []error
	for i, step := range steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return errors.Join(append(failures, NewCancellationError(step.ID(), ctxErr))...)
		}

		m.logger.DebugContext(ctx, "executing_stage",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		if err := m.executeStage(ctx, state, step); err != nil {
			failures = append(failures, err)
			if m.config.Policy == HaltOnError {
				m.skipRemaining(state, steps[i+1:], fmt.Sprintf("previous step %s failed", step.ID()))
				return err
			}
			m.logger.WarnContext(ctx, "stage_failed_continuing",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
		}
	}
	return errors.Join(failures...)
}

// executeStage executes a single Step and records its outcome
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())

	stepCtx, span := m.telemetry.StartSpan(ctx, "step."+step.ID(),
		attribute.String("step.name", step.Name()))
	defer span.End()

	stepState.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)
	m.telemetry.RecordStep(stepCtx, step.ID(), duration, err == nil)

	if err != nil {
		stepState.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.ErrorContext(stepCtx, "stage_execution_failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return NewExecutionError(step.ID(), err)
	}

	stepState.Complete()
	m.logger.InfoContext(stepCtx, "stage_completed",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, s := range steps {
		if st := state.GetStage(s.ID()); st != nil && st.GetStatus() == StepStatusPending {
			st.Skip(reason)
		}
	}
}
