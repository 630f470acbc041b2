package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"proflow/internal/models"

	"golang.org/x/sync/errgroup"
)

type DeleteClientRequest struct {
	ClientID       string
	RequesterEmail string
	RequesterIP    string
}

type ClientDeletionResult struct {
	ClientID            string `json:"clientId"`
	TasksDeleted        int    `json:"tasksDeleted"`
	TransactionsDeleted int    `json:"transactionsDeleted"`
	AuthAccountDeleted  bool   `json:"authAccountDeleted"`
}

// DeleteClient removes a client together with every dependent task and
// transaction. Dependent deletions fan out and are awaited as one batch;
// deletions that completed before a failing one are not rolled back.
func (s *Service) DeleteClient(ctx context.Context, req DeleteClientRequest) (result *ClientDeletionResult, err error) {
	if req.ClientID == "" || req.RequesterEmail == "" {
		return nil, fmt.Errorf("clientId and adminEmail are required: %w", ErrBadRequest)
	}

	var step Step
	defer func() {
		if err != nil && !clientFault(err) {
			s.recordFailure(ctx, models.ActionClientDeletionFailed, step, err)
		}
	}()

	if err := s.auth.Authorize(ctx, req.RequesterEmail); err != nil {
		return nil, err
	}
	step = StepAuthorized

	client, err := s.records.GetClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	var (
		tasks []models.Task
		txns  []models.Transaction
	)
	var load errgroup.Group
	load.Go(func() error {
		var err error
		tasks, err = s.records.TasksByClient(ctx, req.ClientID)
		return err
	})
	load.Go(func() error {
		var err error
		txns, err = s.records.TransactionsByClient(ctx, req.ClientID)
		return err
	})
	if err := load.Wait(); err != nil {
		return nil, fmt.Errorf("load dependents: %w", err)
	}
	step = StepDependentsLoaded

	var cascade errgroup.Group
	for i := range tasks {
		id := tasks[i].ID
		cascade.Go(func() error { return s.records.DeleteTask(ctx, id) })
	}
	for i := range txns {
		id := txns[i].ID
		cascade.Go(func() error { return s.records.DeleteTransaction(ctx, id) })
	}
	if err := cascade.Wait(); err != nil {
		return nil, fmt.Errorf("cascade delete: %w", err)
	}
	step = StepDependentsMutated

	authDeleted := s.removeIdentity(ctx, client.Email)
	step = StepIdentityHandled

	if err := s.records.DeleteClient(ctx, req.ClientID); err != nil {
		return nil, fmt.Errorf("delete client record: %w", err)
	}
	step = StepRootDeleted

	details, _ := json.Marshal(map[string]any{
		"clientId":            client.ID,
		"clientName":          client.Name,
		"clientEmail":         client.Email,
		"tasksDeleted":        len(tasks),
		"transactionsDeleted": len(txns),
		"authAccountDeleted":  authDeleted,
	})
	audit := &models.AuditLog{
		Action:     models.ActionClientDeleted,
		ActorEmail: req.RequesterEmail,
		EntityID:   client.ID,
		Details:    string(details),
		IPAddress:  req.RequesterIP,
	}
	if err := s.records.AppendAudit(ctx, audit); err != nil {
		s.log.Warn().Err(err).Str("clientId", client.ID).Msg("audit log write failed")
	}
	step = StepAudited

	s.log.Info().
		Str("clientId", client.ID).
		Int("tasksDeleted", len(tasks)).
		Int("transactionsDeleted", len(txns)).
		Bool("authAccountDeleted", authDeleted).
		Str("requester", req.RequesterEmail).
		Msg("client deleted")

	return &ClientDeletionResult{
		ClientID:            client.ID,
		TasksDeleted:        len(tasks),
		TransactionsDeleted: len(txns),
		AuthAccountDeleted:  authDeleted,
	}, nil
}
