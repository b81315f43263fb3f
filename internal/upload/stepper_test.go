package upload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepper_PreservesOrderAndFinalizes(t *testing.T) {
	s := NewStepper([]string{"a.pdf", "b.pdf", "c.pdf"})

	_, err := s.Collected()
	assert.ErrorIs(t, err, ErrNotFinalized)

	for _, want := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		assert.Equal(t, want, s.Current())
		require.NoError(t, s.Submit(FileMetadata{Name: "Doc " + want}))
	}

	assert.True(t, s.Done())
	assert.Empty(t, s.Current())

	collected, err := s.Collected()
	require.NoError(t, err)
	require.Len(t, collected, 3)
	assert.Equal(t, "a.pdf", collected[0].FileName)
	assert.Equal(t, "b.pdf", collected[1].FileName)
	assert.Equal(t, "c.pdf", collected[2].FileName)
}

func TestStepper_DuplicateFileNamesKeepSeparateMetadata(t *testing.T) {
	s := NewStepper([]string{"report.pdf", "report.pdf"})

	require.NoError(t, s.Submit(FileMetadata{Name: "Q1 Report"}))
	require.NoError(t, s.Submit(FileMetadata{Name: "Q2 Report"}))

	collected, err := s.Collected()
	require.NoError(t, err)
	require.Len(t, collected, 2)
	assert.Equal(t, "Q1 Report", collected[0].Name)
	assert.Equal(t, "Q2 Report", collected[1].Name)
	assert.Equal(t, "report.pdf", collected[0].FileName)
	assert.Equal(t, "report.pdf", collected[1].FileName)
}

func TestStepper_RejectsInvalidMetadataWithoutAdvancing(t *testing.T) {
	s := NewStepper([]string{"a.pdf"})

	assert.ErrorIs(t, s.Submit(FileMetadata{Name: "   "}), ErrNameRequired)
	assert.Equal(t, "a.pdf", s.Current())

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	err := s.Submit(FileMetadata{Name: "Doc", EffectiveStartDate: &start, EffectiveEndDate: &end})
	assert.ErrorIs(t, err, ErrBadDateRange)
	assert.False(t, s.Done())

	require.NoError(t, s.Submit(FileMetadata{Name: "Doc", EffectiveStartDate: &start}))
	assert.True(t, s.Done())
	assert.ErrorIs(t, s.Submit(FileMetadata{Name: "Extra"}), ErrStepperDone)
}

func TestValidateDateRange_EqualDatesRejected(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	same := start
	assert.ErrorIs(t, ValidateDateRange(start, &same), ErrBadDateRange)

	later := start.Add(time.Hour)
	assert.NoError(t, ValidateDateRange(start, &later))
	assert.NoError(t, ValidateDateRange(start, nil))
}

func TestReconcile_PartialResponseLeavesUnmatchedAlone(t *testing.T) {
	files := []FileState{
		{OriginalName: "a.pdf", State: StateUploading},
		{OriginalName: "b.pdf", State: StateUploading},
		{OriginalName: "c.pdf", State: StateUploading},
	}

	out := Reconcile(files, []string{"a.pdf", "c.pdf"})
	assert.Equal(t, StateSuccess, out[0].State)
	assert.Equal(t, StateUploading, out[1].State)
	assert.Equal(t, StateSuccess, out[2].State)
}

func TestReconcile_DuplicateNamesConsumeInOrder(t *testing.T) {
	files := []FileState{
		{OriginalName: "dup.pdf", State: StateUploading},
		{OriginalName: "dup.pdf", State: StateUploading},
	}

	out := Reconcile(files, []string{"dup.pdf"})
	assert.Equal(t, StateSuccess, out[0].State)
	assert.Equal(t, StateUploading, out[1].State)
}

func TestMarkAllFailed(t *testing.T) {
	files := []FileState{
		{OriginalName: "a.pdf", State: StateUploading},
		{OriginalName: "b.pdf", State: StateSuccess},
	}

	out := MarkAllFailed(files, "connection reset")
	assert.Equal(t, StateError, out[0].State)
	assert.Equal(t, "connection reset", out[0].Error)
	assert.Equal(t, StateSuccess, out[1].State)
}
