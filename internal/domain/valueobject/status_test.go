package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    ReportStatus
		to      ReportStatus
		allowed bool
	}{
		{ReportStatusReported, ReportStatusAssigned, true},
		{ReportStatusReported, ReportStatusRejected, true},
		{ReportStatusReported, ReportStatusInProgress, false},
		{ReportStatusReported, ReportStatusCompleted, false},
		{ReportStatusAssigned, ReportStatusInProgress, true},
		{ReportStatusAssigned, ReportStatusCompleted, false},
		{ReportStatusAssigned, ReportStatusRejected, false},
		{ReportStatusAssigned, ReportStatusReported, false},
		{ReportStatusInProgress, ReportStatusCompleted, true},
		{ReportStatusInProgress, ReportStatusRejected, false},
		{ReportStatusInProgress, ReportStatusAssigned, false},
		{ReportStatusCompleted, ReportStatusCompleted, false},
		{ReportStatusCompleted, ReportStatusReported, false},
		{ReportStatusCompleted, ReportStatusInProgress, false},
		{ReportStatusRejected, ReportStatusAssigned, false},
		{ReportStatusRejected, ReportStatusReported, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestReportStatus_IsTerminal(t *testing.T) {
	assert.True(t, ReportStatusCompleted.IsTerminal())
	assert.True(t, ReportStatusRejected.IsTerminal())
	assert.False(t, ReportStatusReported.IsTerminal())
	assert.False(t, ReportStatusAssigned.IsTerminal())
	assert.False(t, ReportStatusInProgress.IsTerminal())
}

func TestNewReportStatus(t *testing.T) {
	status, err := NewReportStatus("in-progress")
	assert.NoError(t, err)
	assert.Equal(t, ReportStatusInProgress, status)

	_, err = NewReportStatus("done")
	assert.Error(t, err)

	_, err = NewReportStatus("")
	assert.Error(t, err)
}

func TestNewReportCategory(t *testing.T) {
	category, err := NewReportCategory("illegal_dumping")
	assert.NoError(t, err)
	assert.Equal(t, CategoryIllegalDumping, category)

	_, err = NewReportCategory("graffiti")
	assert.Error(t, err)
}

func TestNewPriority(t *testing.T) {
	priority, err := NewPriority("urgent")
	assert.NoError(t, err)
	assert.Equal(t, PriorityUrgent, priority)

	_, err = NewPriority("critical")
	assert.Error(t, err)
}
