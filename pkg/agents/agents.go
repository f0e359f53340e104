// Package agents implements the found3r-engine agent functions. Each agent
// is a single pipeline stage: load project context, build prompts, make one
// gateway call, parse the response into a typed payload, merge it into the
// agent's exclusive brain field, and append one activity log entry.
package agents

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/config"
	"github.com/found3r/found3r-engine/pkg/database"
	"github.com/found3r/found3r-engine/pkg/llm"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// Name identifies an agent. The set is closed; unknown names are rejected at
// the dispatch boundary.
type Name string

const (
	SignalScannerName   Name = "signal_scanner"
	LaunchTestName      Name = "launch_test"
	BuildPlannerName    Name = "build_planner"
	DistributionKitName Name = "distribution_kit"
	CopilotName         Name = "copilot"
)

// ParseName validates a caller-supplied agent name.
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case SignalScannerName, LaunchTestName, BuildPlannerName, DistributionKitName, CopilotName:
		return Name(s), nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownAgent, s)
}

// Options carries optional agent-specific parameters.
type Options struct {
	// Provider hints SignalScanner's signal source.
	Provider string `json:"provider,omitempty"`

	// Deploy asks LaunchTest to publish the generated landing page.
	Deploy bool `json:"deploy,omitempty"`
}

// Agent is one runnable pipeline stage. Run must be all-or-nothing with
// respect to the brain: a gateway or parse failure leaves the aggregate
// untouched (only an error activity entry is written).
type Agent interface {
	Name() Name
	Run(ctx context.Context, userID, projectID uuid.UUID, opts Options) (string, error)
}

// Deps bundles the collaborators shared by all agents.
type Deps struct {
	Projects repositories.ProjectRepository
	Brains   repositories.BrainRepository
	Tickets  repositories.TicketRepository
	Activity repositories.ActivityRepository
	Chat     repositories.ChatRepository

	LLM  llm.Client
	InTx database.TxRunner

	Config      config.AgentConfig
	Temperature float64
	Logger      *zap.Logger
}

// loadOwnedProject fetches a project and verifies ownership. A project owned
// by someone else is reported as not found.
func (d *Deps) loadOwnedProject(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	project, err := d.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

// logActivity appends one log entry, logging rather than failing if the
// append itself errors. Activity is observability, not state.
func (d *Deps) logActivity(ctx context.Context, projectID uuid.UUID, agent Name, message string, isError bool) {
	entry := &models.ActivityEntry{
		ProjectID: projectID,
		AgentName: string(agent),
		Message:   message,
		IsError:   isError,
	}
	if err := d.Activity.Append(ctx, entry); err != nil {
		d.Logger.Error("Failed to append activity entry",
			zap.String("project_id", projectID.String()),
			zap.String("agent", string(agent)),
			zap.Error(err))
	}
}

// failRun records a failed attempt in the activity log and wraps the cause.
// Called before any brain mutation, so the aggregate stays untouched.
func (d *Deps) failRun(ctx context.Context, projectID uuid.UUID, agent Name, cause error) error {
	d.logActivity(ctx, projectID, agent, fmt.Sprintf("%s failed: %v", agent, cause), true)
	return &ExecutionError{Agent: agent, Err: cause}
}

// advanceStatus moves the project forward to next if it has not reached that
// stage yet. Re-runs never move a project backward.
func (d *Deps) advanceStatus(ctx context.Context, project *models.Project, next models.ProjectStatus) error {
	if !project.Status.Before(next) {
		return nil
	}
	project.Status = next
	if err := d.Projects.Update(ctx, project); err != nil {
		return fmt.Errorf("advance status: %w", err)
	}
	d.Logger.Info("Project advanced",
		zap.String("project_id", project.ID.String()),
		zap.String("status", string(next)))
	return nil
}
