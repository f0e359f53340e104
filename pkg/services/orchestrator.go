package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/agents"
	"github.com/found3r/found3r-engine/pkg/apperrors"
)

// Orchestrator dispatches agent runs and drives the full sweep.
type Orchestrator interface {
	// RunAgent runs one agent by name. Unknown names are rejected with
	// ErrUnknownAgent; a concurrent run on the same project with
	// ErrAgentRunning.
	RunAgent(ctx context.Context, userID, projectID uuid.UUID, agentName string, opts agents.Options) (string, error)

	// RunFullSweep runs the four pipeline agents in order, publishing
	// progress to the status store after each step. A failed step halts the
	// sweep; later agents read earlier agents' output, so there is no point
	// continuing.
	RunFullSweep(ctx context.Context, userID, projectID uuid.UUID) error

	// SweepStatus returns the current sweep progress for polling.
	// ErrNotFound once the status has expired or no sweep was started.
	SweepStatus(ctx context.Context, userID, projectID uuid.UUID) (SweepStatus, error)
}

// sweepOrder is the fixed pipeline sequence. Strictly serial: each stage
// reads fields written by the previous ones.
var sweepOrder = []agents.Name{
	agents.SignalScannerName,
	agents.LaunchTestName,
	agents.BuildPlannerName,
	agents.DistributionKitName,
}

// orchestrator implements Orchestrator.
type orchestrator struct {
	registry map[agents.Name]agents.Agent
	projects ProjectService
	status   SweepStatusStore
	logger   *zap.Logger

	// running guards one agent run per project at a time. Optimistic
	// in-process try-lock; a second replica would not see it, which is
	// acceptable for a human-paced workflow.
	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

// NewOrchestrator creates the agent orchestrator. The registry must contain
// the four pipeline agents.
func NewOrchestrator(registry map[agents.Name]agents.Agent, projects ProjectService, status SweepStatusStore, logger *zap.Logger) Orchestrator {
	return &orchestrator{
		registry: registry,
		projects: projects,
		status:   status,
		logger:   logger.Named("orchestrator"),
		running:  make(map[uuid.UUID]struct{}),
	}
}

// RunAgent implements Orchestrator.
func (o *orchestrator) RunAgent(ctx context.Context, userID, projectID uuid.UUID, agentName string, opts agents.Options) (string, error) {
	name, err := agents.ParseName(agentName)
	if err != nil {
		return "", err
	}
	agent, ok := o.registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %q is not runnable here", apperrors.ErrUnknownAgent, name)
	}

	if !o.tryAcquire(projectID) {
		return "", fmt.Errorf("%w: project %s", apperrors.ErrAgentRunning, projectID)
	}
	defer o.release(projectID)

	return agent.Run(ctx, userID, projectID, opts)
}

// RunFullSweep implements Orchestrator.
func (o *orchestrator) RunFullSweep(ctx context.Context, userID, projectID uuid.UUID) error {
	// Ownership first, so a sweep against someone else's project never
	// creates a pollable status entry.
	if _, err := o.projects.Get(ctx, userID, projectID); err != nil {
		return err
	}

	if !o.tryAcquire(projectID) {
		return fmt.Errorf("%w: project %s", apperrors.ErrAgentRunning, projectID)
	}
	defer o.release(projectID)

	o.publish(ctx, projectID, SweepStatus{
		State:   SweepRunning,
		Phase:   string(sweepOrder[0]),
		Message: "Full sweep started",
		Percent: 0,
	})

	for i, name := range sweepOrder {
		agent := o.registry[name]
		summary, err := agent.Run(ctx, userID, projectID, agents.Options{})
		if err != nil {
			o.publish(ctx, projectID, SweepStatus{
				State:   SweepFailed,
				Phase:   string(name),
				Message: fmt.Sprintf("%s failed: %v", name, err),
				Percent: i * 100 / len(sweepOrder),
			})
			o.logger.Error("Sweep halted",
				zap.String("project_id", projectID.String()),
				zap.String("phase", string(name)),
				zap.Error(err))
			return err
		}

		percent := (i + 1) * 100 / len(sweepOrder)
		status := SweepStatus{
			State:   SweepRunning,
			Phase:   string(name),
			Message: summary,
			Percent: percent,
		}
		if i == len(sweepOrder)-1 {
			status.State = SweepCompleted
			status.Message = "Full sweep completed"
		}
		o.publish(ctx, projectID, status)
	}

	o.logger.Info("Sweep completed", zap.String("project_id", projectID.String()))
	return nil
}

// SweepStatus implements Orchestrator.
func (o *orchestrator) SweepStatus(ctx context.Context, userID, projectID uuid.UUID) (SweepStatus, error) {
	if _, err := o.projects.Get(ctx, userID, projectID); err != nil {
		return SweepStatus{}, err
	}
	return o.status.Get(ctx, projectID)
}

// publish writes sweep progress, logging rather than failing the sweep if
// the status store is unavailable.
func (o *orchestrator) publish(ctx context.Context, projectID uuid.UUID, status SweepStatus) {
	status.UpdatedAt = time.Now()
	if err := o.status.Set(ctx, projectID, status); err != nil {
		o.logger.Warn("Failed to publish sweep status",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
	}
}

func (o *orchestrator) tryAcquire(projectID uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.running[projectID]; busy {
		return false
	}
	o.running[projectID] = struct{}{}
	return true
}

func (o *orchestrator) release(projectID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.running, projectID)
}

// Ensure orchestrator implements Orchestrator at compile time.
var _ Orchestrator = (*orchestrator)(nil)
