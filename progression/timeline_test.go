package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lesson(id uint, order int) ContentItem {
	return ContentItem{ID: id, Kind: KindLesson, OrderIndex: order}
}

func exam(id uint, order, totalMarks, passMarks int) ContentItem {
	return ContentItem{ID: id, Kind: KindExam, OrderIndex: order, TotalMarks: totalMarks, PassMarks: passMarks}
}

func TestBuildTimelineOrdersByIndex(t *testing.T) {
	items := []ContentItem{
		exam(10, 3, 100, 40),
		lesson(1, 1),
		lesson(2, 2),
	}

	timeline := BuildTimeline(items, nil, nil, MarksPolicy{})

	require.Len(t, timeline, 3)
	assert.Equal(t, uint(1), timeline[0].ID)
	assert.Equal(t, uint(2), timeline[1].ID)
	assert.Equal(t, uint(10), timeline[2].ID)
}

func TestBuildTimelineStableOnDuplicateIndexes(t *testing.T) {
	// order assignment is best-effort, duplicates must keep input order
	items := []ContentItem{
		lesson(1, 1),
		lesson(2, 1),
		lesson(3, 1),
	}

	timeline := BuildTimeline(items, nil, nil, MarksPolicy{})

	require.Len(t, timeline, 3)
	assert.Equal(t, uint(1), timeline[0].ID)
	assert.Equal(t, uint(2), timeline[1].ID)
	assert.Equal(t, uint(3), timeline[2].ID)
}

func TestBuildTimelineUnpassedExamLocksEverythingAfter(t *testing.T) {
	items := []ContentItem{
		lesson(1, 1),
		exam(10, 2, 100, 40),
		lesson(2, 3),
		lesson(3, 4),
	}

	// exam never attempted
	timeline := BuildTimeline(items, map[uint]bool{1: true}, nil, MarksPolicy{})

	assert.False(t, timeline[0].IsLocked)
	assert.False(t, timeline[1].IsLocked)
	assert.True(t, timeline[2].IsLocked)
	assert.True(t, timeline[3].IsLocked)
}

func TestBuildTimelineFailedExamStillLocks(t *testing.T) {
	items := []ContentItem{
		exam(10, 1, 100, 40),
		lesson(1, 2),
	}
	results := map[uint]ExamOutcome{10: {ObtainedMarks: 20, Percentage: 20}}

	timeline := BuildTimeline(items, nil, results, MarksPolicy{})

	// a failed attempt counts as completed but not passed
	assert.True(t, timeline[0].IsCompleted)
	assert.False(t, timeline[0].IsPassed)
	assert.True(t, timeline[1].IsLocked)
}

func TestBuildTimelinePassedExamUnlocks(t *testing.T) {
	items := []ContentItem{
		exam(10, 1, 100, 40),
		lesson(1, 2),
	}
	results := map[uint]ExamOutcome{10: {ObtainedMarks: 40, Percentage: 40}}

	timeline := BuildTimeline(items, nil, results, MarksPolicy{})

	assert.True(t, timeline[0].IsPassed)
	assert.False(t, timeline[1].IsLocked)
}

func TestBuildTimelineLessonsNeverLock(t *testing.T) {
	items := []ContentItem{
		lesson(1, 1),
		lesson(2, 2),
		lesson(3, 3),
	}

	// nothing watched at all
	timeline := BuildTimeline(items, nil, nil, MarksPolicy{})

	for _, entry := range timeline {
		assert.False(t, entry.IsLocked)
	}
}

func TestMarksPolicyBoundary(t *testing.T) {
	item := exam(1, 1, 100, 40)

	assert.True(t, MarksPolicy{}.Passed(item, ExamOutcome{ObtainedMarks: 40}))
	assert.False(t, MarksPolicy{}.Passed(item, ExamOutcome{ObtainedMarks: 39}))
}

func TestPercentPolicyBoundary(t *testing.T) {
	item := exam(1, 1, 50, 45)
	policy := PercentPolicy{Threshold: 40}

	// the flat bar applies regardless of the exam's own pass marks
	assert.True(t, policy.Passed(item, ExamOutcome{Percentage: 40}))
	assert.False(t, policy.Passed(item, ExamOutcome{Percentage: 39.9}))
}

func TestPickResumeTargetEmpty(t *testing.T) {
	_, err := PickResumeTarget(nil)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestPickResumeTargetFirstUnwatchedLesson(t *testing.T) {
	items := []ContentItem{
		lesson(1, 1),
		lesson(2, 2),
		lesson(3, 3),
	}
	timeline := BuildTimeline(items, map[uint]bool{1: true}, nil, MarksPolicy{})

	target, err := PickResumeTarget(timeline)
	require.NoError(t, err)
	assert.Equal(t, uint(2), target)
}

func TestPickResumeTargetFailedExamStaysTarget(t *testing.T) {
	items := []ContentItem{
		lesson(1, 1),
		exam(10, 2, 100, 40),
		lesson(2, 3),
	}
	completed := map[uint]bool{1: true}
	results := map[uint]ExamOutcome{10: {ObtainedMarks: 10, Percentage: 10}}
	timeline := BuildTimeline(items, completed, results, MarksPolicy{})

	target, err := PickResumeTarget(timeline)
	require.NoError(t, err)
	assert.Equal(t, uint(10), target)
}

func TestPickResumeTargetAllDoneReturnsLast(t *testing.T) {
	items := []ContentItem{
		lesson(1, 1),
		exam(10, 2, 100, 40),
		lesson(2, 3),
	}
	completed := map[uint]bool{1: true, 2: true}
	results := map[uint]ExamOutcome{10: {ObtainedMarks: 90, Percentage: 90}}
	timeline := BuildTimeline(items, completed, results, MarksPolicy{})

	target, err := PickResumeTarget(timeline)
	require.NoError(t, err)
	assert.Equal(t, uint(2), target)
}

func TestIsScopeFullyComplete(t *testing.T) {
	items := []ContentItem{
		lesson(1, 1),
		exam(10, 2, 100, 40),
	}

	// empty scope never counts as complete
	assert.False(t, IsScopeFullyComplete(nil))

	// failed exam keeps the scope incomplete even though it was attempted
	failed := BuildTimeline(items, map[uint]bool{1: true}, map[uint]ExamOutcome{10: {ObtainedMarks: 5}}, MarksPolicy{})
	assert.False(t, IsScopeFullyComplete(failed))

	done := BuildTimeline(items, map[uint]bool{1: true}, map[uint]ExamOutcome{10: {ObtainedMarks: 50}}, MarksPolicy{})
	assert.True(t, IsScopeFullyComplete(done))
}
