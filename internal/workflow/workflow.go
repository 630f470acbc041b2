// Package workflow orchestrates the multi-step teardown or transfer of a
// client or creator and their dependent records. Mutation phases fan out and
// await the whole batch; completed operations are never rolled back, so a
// mid-batch failure leaves an orphaned subset that the audit and error logs
// make discoverable after the fact.
package workflow

import (
	"context"
	"errors"

	"proflow/internal/models"

	"github.com/rs/zerolog"
)

// Step is the furthest point a workflow invocation reached. Persisted in the
// error log on failure so reconciliation can tell which phase broke.
type Step string

const (
	StepAuthorized        Step = "authorized"
	StepDependentsLoaded  Step = "dependents_loaded"
	StepDependentsMutated Step = "dependents_mutated"
	StepIdentityHandled   Step = "identity_handled"
	StepRootDeleted       Step = "root_deleted"
	StepAudited           Step = "audited"
)

var (
	ErrBadRequest   = errors.New("missing required field")
	ErrUnauthorized = errors.New("requester identity not found")
	ErrNotFound     = errors.New("record not found")

	// ErrIdentityNotFound is the contract IdentityStore implementations
	// use for a missing account; the workflow treats it as success-equivalent
	// during identity removal.
	ErrIdentityNotFound = errors.New("identity not found")
)

// RecordStore is the narrow surface of the document store the workflow needs.
type RecordStore interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
	DeleteClient(ctx context.Context, id string) error

	GetCreator(ctx context.Context, id string) (*models.Creator, error)
	ListCreators(ctx context.Context) ([]models.Creator, error)
	DeleteCreator(ctx context.Context, id string) error

	TasksByClient(ctx context.Context, clientID string) ([]models.Task, error)
	TasksByAssignee(ctx context.Context, assigneeID string) ([]models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	SaveTask(ctx context.Context, task *models.Task) error

	TransactionsByClient(ctx context.Context, clientID string) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	AppendAudit(ctx context.Context, entry *models.AuditLog) error
	AppendError(ctx context.Context, entry *models.ErrorLog) error
}

// Identity is an account in the external identity store.
type Identity struct {
	UID   string
	Email string
}

type IdentityStore interface {
	LookupByEmail(ctx context.Context, email string) (*Identity, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// Authorizer decides whether a requester may run destructive workflows.
type Authorizer interface {
	Authorize(ctx context.Context, email string) error
}

// ExistsAuthorizer authorizes any email that resolves to an identity. This
// keeps the original identity-exists semantics; a role-checking authorizer
// can be swapped in without touching the workflow.
type ExistsAuthorizer struct {
	Identities IdentityStore
}

func (a ExistsAuthorizer) Authorize(ctx context.Context, email string) error {
	if _, err := a.Identities.LookupByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	return nil
}

type Service struct {
	records    RecordStore
	identities IdentityStore
	auth       Authorizer
	log        zerolog.Logger
}

func New(records RecordStore, identities IdentityStore, auth Authorizer, log zerolog.Logger) *Service {
	return &Service{
		records:    records,
		identities: identities,
		auth:       auth,
		log:        log,
	}
}

// removeIdentity deletes the auth account matching email, if any. A missing
// account is not an error; any other failure is logged and swallowed because
// the record-store mutations are already authoritative at this point.
func (s *Service) removeIdentity(ctx context.Context, email string) bool {
	if email == "" {
		return false
	}
	if _, err := s.identities.LookupByEmail(ctx, email); err != nil {
		if !errors.Is(err, ErrIdentityNotFound) {
			s.log.Warn().Err(err).Str("email", email).Msg("identity lookup failed, skipping account removal")
		}
		return false
	}
	if err := s.identities.DeleteByEmail(ctx, email); err != nil {
		if !errors.Is(err, ErrIdentityNotFound) {
			s.log.Warn().Err(err).Str("email", email).Msg("identity removal failed, continuing")
		}
		return false
	}
	return true
}

// recordFailure writes a best-effort error log entry. Its own failure is
// logged to the process log only and never masks the original error.
func (s *Service) recordFailure(ctx context.Context, action string, step Step, cause error) {
	entry := &models.ErrorLog{
		Action:  action,
		Message: cause.Error(),
		Detail:  cause.Error(),
		Step:    string(step),
	}
	if err := s.records.AppendError(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("error log write failed")
	}
}

// clientFault reports whether err is a caller-side failure that happens
// before any mutation and does not warrant an error log entry.
func clientFault(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotFound)
}
