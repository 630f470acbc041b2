package workflow

import (
	"context"
	"fmt"
	"time"

	"proflow/internal/models"

	"golang.org/x/sync/errgroup"
)

type TaskSummary struct {
	ID          string  `json:"id"`
	ProjectName string  `json:"projectName"`
	WorkStatus  string  `json:"workStatus"`
	Total       float64 `json:"total"`
}

type TransactionSummary struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Type   string    `json:"type"`
}

type ClientDeletionPreview struct {
	TasksCount         int                  `json:"tasksCount"`
	TransactionsCount  int                  `json:"transactionsCount"`
	TaskDetails        []TaskSummary        `json:"taskDetails"`
	TransactionDetails []TransactionSummary `json:"transactionDetails"`
}

type CreatorOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreatorDeletionPreview struct {
	AssignedTasksCount int             `json:"assignedTasksCount"`
	AvailableCreators  []CreatorOption `json:"availableCreators"`
	TaskDetails        []TaskSummary   `json:"taskDetails"`
}

// ClientDeletionPreview reports what DeleteClient would remove, so the
// caller can show an impact warning first. Pure read, no side effects.
func (s *Service) ClientDeletionPreview(ctx context.Context, clientID string) (*ClientDeletionPreview, error) {
	if clientID == "" {
		return nil, fmt.Errorf("clientId is required: %w", ErrBadRequest)
	}

	var (
		tasks []models.Task
		txns  []models.Transaction
	)
	var load errgroup.Group
	load.Go(func() error {
		var err error
		tasks, err = s.records.TasksByClient(ctx, clientID)
		return err
	})
	load.Go(func() error {
		var err error
		txns, err = s.records.TransactionsByClient(ctx, clientID)
		return err
	})
	if err := load.Wait(); err != nil {
		return nil, fmt.Errorf("load dependents: %w", err)
	}

	preview := &ClientDeletionPreview{
		TasksCount:         len(tasks),
		TransactionsCount:  len(txns),
		TaskDetails:        make([]TaskSummary, 0, len(tasks)),
		TransactionDetails: make([]TransactionSummary, 0, len(txns)),
	}
	for _, t := range tasks {
		preview.TaskDetails = append(preview.TaskDetails, TaskSummary{
			ID:          t.ID,
			ProjectName: t.ProjectName,
			WorkStatus:  string(t.WorkStatus),
			Total:       t.Total,
		})
	}
	for _, tr := range txns {
		preview.TransactionDetails = append(preview.TransactionDetails, TransactionSummary{
			ID:     tr.ID,
			Amount: tr.Amount,
			Date:   tr.TransactionDate,
			Type:   tr.PaymentMethod,
		})
	}
	return preview, nil
}

// CreatorDeletionPreview reports how many tasks would need a new assignee
// and which other creators could take them. Pure read, no side effects.
func (s *Service) CreatorDeletionPreview(ctx context.Context, creatorID string) (*CreatorDeletionPreview, error) {
	if creatorID == "" {
		return nil, fmt.Errorf("creatorId is required: %w", ErrBadRequest)
	}

	tasks, err := s.records.TasksByAssignee(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("load assigned tasks: %w", err)
	}
	creators, err := s.records.ListCreators(ctx)
	if err != nil {
		return nil, fmt.Errorf("list creators: %w", err)
	}

	preview := &CreatorDeletionPreview{
		AssignedTasksCount: len(tasks),
		AvailableCreators:  make([]CreatorOption, 0, len(creators)),
		TaskDetails:        make([]TaskSummary, 0, len(tasks)),
	}
	for _, c := range creators {
		if c.ID == creatorID {
			continue
		}
		preview.AvailableCreators = append(preview.AvailableCreators, CreatorOption{
			ID:    c.ID,
			Name:  c.Name,
			Email: c.Email,
		})
	}
	for _, t := range tasks {
		preview.TaskDetails = append(preview.TaskDetails, TaskSummary{
			ID:          t.ID,
			ProjectName: t.ProjectName,
			WorkStatus:  string(t.WorkStatus),
			Total:       t.Total,
		})
	}
	return preview, nil
}
