package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/workflow"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, workflow.CanTransition(entity.StatusPending, entity.StatusApproved))
	assert.True(t, workflow.CanTransition(entity.StatusPending, entity.StatusAllocated),
		"single-level chains jump straight to allocated")
	assert.True(t, workflow.CanTransition(entity.StatusPending, entity.StatusCancelled))
	assert.True(t, workflow.CanTransition(entity.StatusApproved, entity.StatusAllocated))
	assert.True(t, workflow.CanTransition(entity.StatusApproved, entity.StatusRejected))

	assert.False(t, workflow.CanTransition(entity.StatusApproved, entity.StatusCancelled),
		"cancellation is only allowed while pending")
	assert.False(t, workflow.CanTransition(entity.StatusAllocated, entity.StatusPending))
	assert.False(t, workflow.CanTransition(entity.StatusRejected, entity.StatusApproved))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, workflow.IsTerminal(entity.StatusPending))
	assert.False(t, workflow.IsTerminal(entity.StatusApproved))
	assert.True(t, workflow.IsTerminal(entity.StatusAllocated))
	assert.True(t, workflow.IsTerminal(entity.StatusRejected))
	assert.True(t, workflow.IsTerminal(entity.StatusCancelled))
}
