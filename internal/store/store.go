// Package store implements workflow.RecordStore on the application database.
package store

import (
	"context"
	"errors"
	"fmt"

	"proflow/internal/models"
	"proflow/internal/workflow"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client %s: %w", id, workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("get client %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}
	return nil
}

func (s *Store) GetCreator(ctx context.Context, id string) (*models.Creator, error) {
	var c models.Creator
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("creator %s: %w", id, workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("get creator %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) ListCreators(ctx context.Context) ([]models.Creator, error) {
	var creators []models.Creator
	if err := s.db.WithContext(ctx).Order("name asc").Find(&creators).Error; err != nil {
		return nil, fmt.Errorf("list creators: %w", err)
	}
	return creators, nil
}

func (s *Store) DeleteCreator(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Creator{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete creator %s: %w", id, err)
	}
	return nil
}

func (s *Store) TasksByClient(ctx context.Context, clientID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("tasks by client %s: %w", clientID, err)
	}
	return tasks, nil
}

func (s *Store) TasksByAssignee(ctx context.Context, assigneeID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).Where("assignee_id = ?", assigneeID).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("tasks by assignee %s: %w", assigneeID, err)
	}
	return tasks, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// SaveTask persists the full record; the model's BeforeSave hook recomputes
// the derived total.
func (s *Store) SaveTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task %s: %w", task.ID, err)
	}
	return nil
}

func (s *Store) TransactionsByClient(ctx context.Context, clientID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("transactions by client %s: %w", clientID, err)
	}
	return txns, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

func (s *Store) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func (s *Store) AppendError(ctx context.Context, entry *models.ErrorLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append error log: %w", err)
	}
	return nil
}
