package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proflow/internal/models"
	"proflow/internal/workflow"
)

// fakeRecords is an in-memory RecordStore safe for the workflow's
// fan-out goroutines.
type fakeRecords struct {
	mu sync.Mutex

	clients  map[string]models.Client
	creators map[string]models.Creator
	tasks    map[string]models.Task
	txns     map[string]models.Transaction
	audits   []models.AuditLog
	errLogs  []models.ErrorLog

	reads int

	failDeleteTask map[string]error
	failSaveTask   map[string]error
	failAudit      error
	failErrLog     error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		clients:        map[string]models.Client{},
		creators:       map[string]models.Creator{},
		tasks:          map[string]models.Task{},
		txns:           map[string]models.Transaction{},
		failDeleteTask: map[string]error{},
		failSaveTask:   map[string]error{},
	}
}

func (f *fakeRecords) GetClient(_ context.Context, id string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	c, ok := f.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, workflow.ErrNotFound)
	}
	return &c, nil
}

func (f *fakeRecords) DeleteClient(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, id)
	return nil
}

func (f *fakeRecords) GetCreator(_ context.Context, id string) (*models.Creator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	c, ok := f.creators[id]
	if !ok {
		return nil, fmt.Errorf("creator %s: %w", id, workflow.ErrNotFound)
	}
	return &c, nil
}

func (f *fakeRecords) ListCreators(_ context.Context) ([]models.Creator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := make([]models.Creator, 0, len(f.creators))
	for _, c := range f.creators {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRecords) DeleteCreator(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.creators, id)
	return nil
}

func (f *fakeRecords) TasksByClient(_ context.Context, clientID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	var out []models.Task
	for _, t := range f.tasks {
		if t.ClientID == clientID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRecords) TasksByAssignee(_ context.Context, assigneeID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	var out []models.Task
	for _, t := range f.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == assigneeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRecords) DeleteTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failDeleteTask[id]; err != nil {
		return err
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeRecords) SaveTask(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failSaveTask[task.ID]; err != nil {
		return err
	}
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeRecords) TransactionsByClient(_ context.Context, clientID string) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	var out []models.Transaction
	for _, t := range f.txns {
		if t.ClientID == clientID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRecords) DeleteTransaction(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.txns, id)
	return nil
}

func (f *fakeRecords) AppendAudit(_ context.Context, entry *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAudit != nil {
		return f.failAudit
	}
	f.audits = append(f.audits, *entry)
	return nil
}

func (f *fakeRecords) AppendError(_ context.Context, entry *models.ErrorLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErrLog != nil {
		return f.failErrLog
	}
	f.errLogs = append(f.errLogs, *entry)
	return nil
}

type fakeIdentities struct {
	mu       sync.Mutex
	accounts map[string]workflow.Identity
	lookups  int
}

func newFakeIdentities(emails ...string) *fakeIdentities {
	f := &fakeIdentities{accounts: map[string]workflow.Identity{}}
	for i, e := range emails {
		f.accounts[e] = workflow.Identity{UID: fmt.Sprintf("uid-%d", i), Email: e}
	}
	return f
}

func (f *fakeIdentities) LookupByEmail(_ context.Context, email string) (*workflow.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	id, ok := f.accounts[email]
	if !ok {
		return nil, fmt.Errorf("lookup %s: %w", email, workflow.ErrIdentityNotFound)
	}
	return &id, nil
}

func (f *fakeIdentities) DeleteByEmail(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[email]; !ok {
		return fmt.Errorf("delete %s: %w", email, workflow.ErrIdentityNotFound)
	}
	delete(f.accounts, email)
	return nil
}

const adminEmail = "admin@proflow.test"

func newService(records *fakeRecords, ids *fakeIdentities) *workflow.Service {
	return workflow.New(records, ids, workflow.ExistsAuthorizer{Identities: ids}, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func seedClient(records *fakeRecords, id, email string, tasks, txns int) {
	records.clients[id] = models.Client{ID: id, Name: "Acme " + id, Email: email}
	for i := 0; i < tasks; i++ {
		tid := fmt.Sprintf("%s-task-%d", id, i)
		records.tasks[tid] = models.Task{ID: tid, ClientID: id, ProjectName: "proj", WorkStatus: models.WorkPending}
	}
	for i := 0; i < txns; i++ {
		xid := fmt.Sprintf("%s-txn-%d", id, i)
		records.txns[xid] = models.Transaction{ID: xid, ClientID: id, Amount: 100}
	}
}

func TestDeleteClientCascade(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail, "acme@client.test")
	seedClient(records, "c1", "acme@client.test", 3, 2)
	seedClient(records, "c2", "", 2, 1) // must survive untouched

	svc := newService(records, ids)
	res, err := svc.DeleteClient(context.Background(), workflow.DeleteClientRequest{
		ClientID:       "c1",
		RequesterEmail: adminEmail,
		RequesterIP:    "10.0.0.1",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "c1", res.ClientID)
	assert.Equal(t, 3, res.TasksDeleted)
	assert.Equal(t, 2, res.TransactionsDeleted)
	assert.True(t, res.AuthAccountDeleted)

	_, stillThere := records.clients["c1"]
	assert.False(t, stillThere, "client record should be removed")
	for _, task := range records.tasks {
		assert.NotEqual(t, "c1", task.ClientID, "no task may still reference the deleted client")
	}
	for _, txn := range records.txns {
		assert.NotEqual(t, "c1", txn.ClientID, "no transaction may still reference the deleted client")
	}
	assert.Len(t, records.tasks, 2, "other client's tasks must survive")
	assert.Len(t, records.txns, 1, "other client's transactions must survive")

	// exactly one audit entry whose counts match what was removed
	require.Len(t, records.audits, 1)
	entry := records.audits[0]
	assert.Equal(t, models.ActionClientDeleted, entry.Action)
	assert.Equal(t, adminEmail, entry.ActorEmail)
	assert.Equal(t, "c1", entry.EntityID)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
	assert.Contains(t, entry.Details, `"tasksDeleted":3`)
	assert.Contains(t, entry.Details, `"transactionsDeleted":2`)
}

func TestDeleteClientNotFoundPerformsNoWrites(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedClient(records, "c1", "", 2, 2)

	svc := newService(records, ids)
	_, err := svc.DeleteClient(context.Background(), workflow.DeleteClientRequest{
		ClientID:       "missing",
		RequesterEmail: adminEmail,
	})
	require.ErrorIs(t, err, workflow.ErrNotFound)

	assert.Len(t, records.tasks, 2)
	assert.Len(t, records.txns, 2)
	assert.Empty(t, records.audits)
	assert.Empty(t, records.errLogs)
}

func TestDeleteClientUnauthorizedBeforeAnyRead(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities() // requester does not resolve
	seedClient(records, "c1", "", 1, 1)

	svc := newService(records, ids)
	_, err := svc.DeleteClient(context.Background(), workflow.DeleteClientRequest{
		ClientID:       "c1",
		RequesterEmail: "nobody@proflow.test",
	})
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	assert.Zero(t, records.reads, "no record store read may happen before authorization")
	assert.Len(t, records.tasks, 1)
	assert.Empty(t, records.audits)
	assert.Empty(t, records.errLogs)
}

func TestDeleteClientMissingFields(t *testing.T) {
	svc := newService(newFakeRecords(), newFakeIdentities(adminEmail))

	_, err := svc.DeleteClient(context.Background(), workflow.DeleteClientRequest{ClientID: "c1"})
	require.ErrorIs(t, err, workflow.ErrBadRequest)

	_, err = svc.DeleteClient(context.Background(), workflow.DeleteClientRequest{RequesterEmail: adminEmail})
	require.ErrorIs(t, err, workflow.ErrBadRequest)
}

func TestDeleteClientNoAuthAccountIsNotAnError(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail) // client email has no account
	seedClient(records, "c1", "ghost@client.test", 1, 0)

	svc := newService(records, ids)
	res, err := svc.DeleteClient(context.Background(), workflow.DeleteClientRequest{
		ClientID:       "c1",
		RequesterEmail: adminEmail,
	})
	require.NoError(t, err)
	assert.False(t, res.AuthAccountDeleted)
	require.Len(t, records.audits, 1)
}

func TestDeleteClientPartialFailureRecordsStep(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedClient(records, "c1", "", 3, 0)
	records.failDeleteTask["c1-task-1"] = errors.New("store unavailable")

	svc := newService(records, ids)
	_, err := svc.DeleteClient(context.Background(), workflow.DeleteClientRequest{
		ClientID:       "c1",
		RequesterEmail: adminEmail,
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, workflow.ErrNotFound)

	// no rollback of completed deletions, root record untouched
	_, rootAlive := records.clients["c1"]
	assert.True(t, rootAlive, "client record must survive a failed cascade")
	assert.Empty(t, records.audits)

	require.Len(t, records.errLogs, 1)
	entry := records.errLogs[0]
	assert.Equal(t, models.ActionClientDeletionFailed, entry.Action)
	assert.Equal(t, string(workflow.StepDependentsLoaded), entry.Step)
	assert.Contains(t, entry.Message, "store unavailable")
}

func TestDeleteClientAuditFailureIsSwallowed(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedClient(records, "c1", "", 1, 1)
	records.failAudit = errors.New("audit store down")

	svc := newService(records, ids)
	res, err := svc.DeleteClient(context.Background(), workflow.DeleteClientRequest{
		ClientID:       "c1",
		RequesterEmail: adminEmail,
	})
	require.NoError(t, err, "a failed audit write must not fail the operation")
	assert.Equal(t, 1, res.TasksDeleted)
}

func seedCreator(records *fakeRecords, id, email string, taskCount int) {
	records.creators[id] = models.Creator{ID: id, Name: "Creator " + id, Email: email}
	for i := 0; i < taskCount; i++ {
		tid := fmt.Sprintf("%s-task-%d", id, i)
		records.tasks[tid] = models.Task{
			ID:           tid,
			ClientID:     "client-x",
			AssigneeID:   strPtr(id),
			AssigneeName: "Creator " + id,
			ProjectName:  "proj",
		}
	}
}

func TestDeleteCreatorUnassignsAllTasks(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail, "cr@proflow.test")
	seedCreator(records, "cr1", "cr@proflow.test", 4)

	svc := newService(records, ids)
	res, err := svc.DeleteOrReassignCreator(context.Background(), workflow.DeleteCreatorRequest{
		CreatorID:      "cr1",
		RequesterEmail: adminEmail,
		ReassignTo:     workflow.ReassignNone,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.TasksReassigned)
	assert.Equal(t, 4, res.TasksUnassigned)
	assert.True(t, res.AuthAccountDeleted)
	assert.Empty(t, res.ReassignedTo)

	for _, task := range records.tasks {
		assert.Nil(t, task.AssigneeID)
		assert.Empty(t, task.AssigneeName)
		require.NotNil(t, task.UnassignedFrom)
		assert.Equal(t, "cr1", *task.UnassignedFrom)
		assert.NotNil(t, task.UnassignedAt)
		assert.Equal(t, adminEmail, task.UnassignedBy)
	}
	_, alive := records.creators["cr1"]
	assert.False(t, alive)
	require.Len(t, records.audits, 1)
	assert.Equal(t, models.ActionCreatorDeleted, records.audits[0].Action)
	assert.Contains(t, records.audits[0].Details, `"tasksUnassigned":4`)
}

func TestDeleteCreatorReassignsAllTasks(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedCreator(records, "cr1", "", 3)
	records.creators["cr2"] = models.Creator{ID: "cr2", Name: "Creator cr2"}

	svc := newService(records, ids)
	res, err := svc.DeleteOrReassignCreator(context.Background(), workflow.DeleteCreatorRequest{
		CreatorID:      "cr1",
		RequesterEmail: adminEmail,
		ReassignTo:     "cr2",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TasksReassigned)
	assert.Equal(t, 0, res.TasksUnassigned)
	assert.Equal(t, "cr2", res.ReassignedTo)
	assert.False(t, res.AuthAccountDeleted)

	for _, task := range records.tasks {
		require.NotNil(t, task.AssigneeID)
		assert.Equal(t, "cr2", *task.AssigneeID, "no task may keep pointing at the deleted creator")
		assert.Equal(t, "Creator cr2", task.AssigneeName)
		require.NotNil(t, task.ReassignedFrom)
		assert.Equal(t, "cr1", *task.ReassignedFrom)
		assert.NotNil(t, task.ReassignedAt)
		assert.Equal(t, adminEmail, task.ReassignedBy)
	}
	require.Len(t, records.audits, 1)
	assert.Contains(t, records.audits[0].Details, `"tasksReassigned":3`)
	assert.Contains(t, records.audits[0].Details, `"reassignedTo":"cr2"`)
}

func TestDeleteCreatorEmptyReassignMeansUnassign(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedCreator(records, "cr1", "", 2)

	svc := newService(records, ids)
	res, err := svc.DeleteOrReassignCreator(context.Background(), workflow.DeleteCreatorRequest{
		CreatorID:      "cr1",
		RequesterEmail: adminEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TasksUnassigned)
}

func TestDeleteCreatorRejectsSelfReassignment(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail, "cr@proflow.test")
	seedCreator(records, "cr1", "cr@proflow.test", 2)

	svc := newService(records, ids)
	_, err := svc.DeleteOrReassignCreator(context.Background(), workflow.DeleteCreatorRequest{
		CreatorID:      "cr1",
		RequesterEmail: adminEmail,
		ReassignTo:     "cr1",
	})
	require.ErrorIs(t, err, workflow.ErrBadRequest)

	// rejected before any mutation: tasks keep their assignee, the creator
	// record and auth account survive
	for _, task := range records.tasks {
		require.NotNil(t, task.AssigneeID)
		assert.Equal(t, "cr1", *task.AssigneeID)
	}
	_, alive := records.creators["cr1"]
	assert.True(t, alive)
	_, accountAlive := ids.accounts["cr@proflow.test"]
	assert.True(t, accountAlive)
	assert.Empty(t, records.audits)
	assert.Empty(t, records.errLogs)
}

func TestDeleteCreatorReassignTargetNotFound(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedCreator(records, "cr1", "", 2)

	svc := newService(records, ids)
	_, err := svc.DeleteOrReassignCreator(context.Background(), workflow.DeleteCreatorRequest{
		CreatorID:      "cr1",
		RequesterEmail: adminEmail,
		ReassignTo:     "ghost",
	})
	require.ErrorIs(t, err, workflow.ErrNotFound)

	// nothing was mutated
	for _, task := range records.tasks {
		require.NotNil(t, task.AssigneeID)
		assert.Equal(t, "cr1", *task.AssigneeID)
	}
	_, alive := records.creators["cr1"]
	assert.True(t, alive)
}

func TestDeleteCreatorPartialFailureRecordsStep(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedCreator(records, "cr1", "", 3)
	records.failSaveTask["cr1-task-2"] = errors.New("write timeout")

	svc := newService(records, ids)
	_, err := svc.DeleteOrReassignCreator(context.Background(), workflow.DeleteCreatorRequest{
		CreatorID:      "cr1",
		RequesterEmail: adminEmail,
	})
	require.Error(t, err)

	_, alive := records.creators["cr1"]
	assert.True(t, alive, "creator record must survive a failed batch")
	require.Len(t, records.errLogs, 1)
	assert.Equal(t, models.ActionCreatorDeletionFailed, records.errLogs[0].Action)
	assert.Equal(t, string(workflow.StepDependentsLoaded), records.errLogs[0].Step)
}

func TestClientDeletionPreviewIsReadOnly(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedClient(records, "c1", "", 2, 3)

	svc := newService(records, ids)
	for i := 0; i < 3; i++ {
		preview, err := svc.ClientDeletionPreview(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, 2, preview.TasksCount)
		assert.Equal(t, 3, preview.TransactionsCount)
		assert.Len(t, preview.TaskDetails, 2)
		assert.Len(t, preview.TransactionDetails, 3)
	}

	assert.Len(t, records.clients, 1)
	assert.Len(t, records.tasks, 2)
	assert.Len(t, records.txns, 3)
	assert.Empty(t, records.audits)
}

func TestClientDeletionPreviewMissingID(t *testing.T) {
	svc := newService(newFakeRecords(), newFakeIdentities())
	_, err := svc.ClientDeletionPreview(context.Background(), "")
	require.ErrorIs(t, err, workflow.ErrBadRequest)
}

func TestCreatorDeletionPreviewExcludesTarget(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedCreator(records, "cr1", "", 2)
	records.creators["cr2"] = models.Creator{ID: "cr2", Name: "B", Email: "b@x"}
	records.creators["cr3"] = models.Creator{ID: "cr3", Name: "C", Email: "c@x"}

	svc := newService(records, ids)
	preview, err := svc.CreatorDeletionPreview(context.Background(), "cr1")
	require.NoError(t, err)

	assert.Equal(t, 2, preview.AssignedTasksCount)
	assert.Len(t, preview.TaskDetails, 2)
	require.Len(t, preview.AvailableCreators, 2)
	for _, opt := range preview.AvailableCreators {
		assert.NotEqual(t, "cr1", opt.ID, "the creator being deleted must not be offered as a target")
	}

	// still read-only
	assert.Len(t, records.creators, 3)
	assert.Len(t, records.tasks, 2)
}

func TestCreatorDeletionPreviewMissingID(t *testing.T) {
	svc := newService(newFakeRecords(), newFakeIdentities())
	_, err := svc.CreatorDeletionPreview(context.Background(), "")
	require.ErrorIs(t, err, workflow.ErrBadRequest)
}

func TestErrorLogFailureDoesNotMaskOriginalError(t *testing.T) {
	records := newFakeRecords()
	ids := newFakeIdentities(adminEmail)
	seedClient(records, "c1", "", 2, 0)
	records.failDeleteTask["c1-task-0"] = errors.New("original failure")
	records.failErrLog = errors.New("error log also down")

	svc := newService(records, ids)
	_, err := svc.DeleteClient(context.Background(), workflow.DeleteClientRequest{
		ClientID:       "c1",
		RequesterEmail: adminEmail,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "original failure")
}
