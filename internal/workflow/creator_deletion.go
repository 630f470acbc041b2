package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"proflow/internal/models"

	"golang.org/x/sync/errgroup"
)

// ReassignNone is the sentinel meaning "detach tasks, do not reassign".
const ReassignNone = "unassign"

type DeleteCreatorRequest struct {
	CreatorID      string
	RequesterEmail string
	// ReassignTo names the creator taking over the tasks. Empty or
	// ReassignNone detaches them instead.
	ReassignTo  string
	RequesterIP string
}

type CreatorDeletionResult struct {
	CreatorID          string `json:"creatorId"`
	TasksReassigned    int    `json:"tasksReassigned"`
	TasksUnassigned    int    `json:"tasksUnassigned"`
	AuthAccountDeleted bool   `json:"authAccountDeleted"`
	ReassignedTo       string `json:"reassignedTo,omitempty"`
}

// DeleteOrReassignCreator removes a creator. Their tasks are never deleted:
// each one is either handed to the reassignment target or detached, with
// stamps recording who moved it, when, and from whom. Task updates fan out
// and are awaited as one batch with no rollback of completed updates.
func (s *Service) DeleteOrReassignCreator(ctx context.Context, req DeleteCreatorRequest) (result *CreatorDeletionResult, err error) {
	if req.CreatorID == "" || req.RequesterEmail == "" {
		return nil, fmt.Errorf("creatorId and adminEmail are required: %w", ErrBadRequest)
	}
	// A creator cannot take over their own tasks: the record is about to be
	// deleted and the tasks would point at nothing.
	if req.ReassignTo == req.CreatorID {
		return nil, fmt.Errorf("reassignTo must name a different creator: %w", ErrBadRequest)
	}

	var step Step
	defer func() {
		if err != nil && !clientFault(err) {
			s.recordFailure(ctx, models.ActionCreatorDeletionFailed, step, err)
		}
	}()

	if err := s.auth.Authorize(ctx, req.RequesterEmail); err != nil {
		return nil, err
	}
	step = StepAuthorized

	creator, err := s.records.GetCreator(ctx, req.CreatorID)
	if err != nil {
		return nil, err
	}

	var target *models.Creator
	if req.ReassignTo != "" && req.ReassignTo != ReassignNone {
		target, err = s.records.GetCreator(ctx, req.ReassignTo)
		if err != nil {
			return nil, fmt.Errorf("reassignment target: %w", err)
		}
	}

	tasks, err := s.records.TasksByAssignee(ctx, req.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("load assigned tasks: %w", err)
	}
	step = StepDependentsLoaded

	now := time.Now().UTC()
	var mutate errgroup.Group
	for i := range tasks {
		task := tasks[i]
		mutate.Go(func() error {
			if target != nil {
				task.AssigneeID = &target.ID
				task.AssigneeName = target.Name
				task.ReassignedFrom = &creator.ID
				task.ReassignedAt = &now
				task.ReassignedBy = req.RequesterEmail
			} else {
				task.AssigneeID = nil
				task.AssigneeName = ""
				task.UnassignedFrom = &creator.ID
				task.UnassignedAt = &now
				task.UnassignedBy = req.RequesterEmail
			}
			return s.records.SaveTask(ctx, &task)
		})
	}
	if err := mutate.Wait(); err != nil {
		return nil, fmt.Errorf("mutate assigned tasks: %w", err)
	}
	step = StepDependentsMutated

	authDeleted := s.removeIdentity(ctx, creator.Email)
	step = StepIdentityHandled

	if err := s.records.DeleteCreator(ctx, req.CreatorID); err != nil {
		return nil, fmt.Errorf("delete creator record: %w", err)
	}
	step = StepRootDeleted

	reassigned, unassigned := 0, 0
	reassignedTo := ""
	if target != nil {
		reassigned = len(tasks)
		reassignedTo = target.ID
	} else {
		unassigned = len(tasks)
	}

	details, _ := json.Marshal(map[string]any{
		"creatorId":          creator.ID,
		"creatorName":        creator.Name,
		"creatorEmail":       creator.Email,
		"tasksReassigned":    reassigned,
		"tasksUnassigned":    unassigned,
		"reassignedTo":       reassignedTo,
		"authAccountDeleted": authDeleted,
	})
	audit := &models.AuditLog{
		Action:     models.ActionCreatorDeleted,
		ActorEmail: req.RequesterEmail,
		EntityID:   creator.ID,
		Details:    string(details),
		IPAddress:  req.RequesterIP,
	}
	if err := s.records.AppendAudit(ctx, audit); err != nil {
		s.log.Warn().Err(err).Str("creatorId", creator.ID).Msg("audit log write failed")
	}
	step = StepAudited

	s.log.Info().
		Str("creatorId", creator.ID).
		Int("tasksReassigned", reassigned).
		Int("tasksUnassigned", unassigned).
		Str("reassignedTo", reassignedTo).
		Str("requester", req.RequesterEmail).
		Msg("creator deleted")

	return &CreatorDeletionResult{
		CreatorID:          creator.ID,
		TasksReassigned:    reassigned,
		TasksUnassigned:    unassigned,
		AuthAccountDeleted: authDeleted,
		ReassignedTo:       reassignedTo,
	}, nil
}
