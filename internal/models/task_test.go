package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskBeforeSaveRecomputesTotal(t *testing.T) {
	task := Task{Pages: 12, Rate: 2.5, Total: 999} // stale total from caller input

	require.NoError(t, task.BeforeSave(nil))
	assert.Equal(t, 30.0, task.Total)

	task.Pages = 0
	require.NoError(t, task.BeforeSave(nil))
	assert.Equal(t, 0.0, task.Total)
}

func TestTaskBeforeCreateAssignsID(t *testing.T) {
	task := Task{}
	require.NoError(t, task.BeforeCreate(nil))
	assert.NotEmpty(t, task.ID)

	keep := Task{ID: "fixed"}
	require.NoError(t, keep.BeforeCreate(nil))
	assert.Equal(t, "fixed", keep.ID)
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, ValidWorkStatus(WorkPending))
	assert.True(t, ValidWorkStatus(WorkInProgress))
	assert.True(t, ValidWorkStatus(WorkCompleted))
	assert.False(t, ValidWorkStatus("Done"))

	assert.True(t, ValidPaymentStatus(PaymentUnpaid))
	assert.True(t, ValidPaymentStatus(PaymentPartial))
	assert.True(t, ValidPaymentStatus(PaymentPaid))
	assert.False(t, ValidPaymentStatus("Settled"))
}
