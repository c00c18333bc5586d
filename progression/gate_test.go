package progression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for gate and sequencer tests
type fakeStore struct {
	semesters map[int]*SemesterInfo // keyed by semester number
	items     map[uint][]ContentItem
	completed map[uint]bool
	results   map[uint]ExamOutcome
}

func (f *fakeStore) ListContentItems(_ context.Context, scope ScopeRef) ([]ContentItem, error) {
	key := scope.SemesterID
	if key == 0 {
		key = scope.CourseID
	}
	return f.items[key], nil
}

func (f *fakeStore) ListCompletedLessons(_ context.Context, _ uint, lessonIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	for _, id := range lessonIDs {
		if f.completed[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeStore) ListAuthoritativeResults(_ context.Context, _ uint, examIDs []uint) (map[uint]ExamOutcome, error) {
	out := make(map[uint]ExamOutcome)
	for _, id := range examIDs {
		if outcome, ok := f.results[id]; ok {
			out[id] = outcome
		}
	}
	return out, nil
}

func (f *fakeStore) GetSemester(_ context.Context, _ uint, semesterNumber int) (*SemesterInfo, error) {
	return f.semesters[semesterNumber], nil
}

func TestCanAccessFirstSemesterAlwaysOpen(t *testing.T) {
	gate := NewGate(&fakeStore{}, 40)

	decision, err := gate.CanAccessSemester(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
}

func TestCanAccessMissingPreviousSemesterFailsOpen(t *testing.T) {
	// semester 2 requested but semester 1 does not exist
	gate := NewGate(&fakeStore{semesters: map[int]*SemesterInfo{}}, 40)

	decision, err := gate.CanAccessSemester(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
}

func TestCanAccessBlockedUntilStaffMarksCompleted(t *testing.T) {
	store := &fakeStore{
		semesters: map[int]*SemesterInfo{1: {ID: 100, IsCompleted: false}},
		items: map[uint][]ContentItem{
			100: {lesson(1, 1)},
		},
		completed: map[uint]bool{1: true},
	}
	gate := NewGate(store, 40)

	// all content cleared, but the administrative flag holds the cohort
	decision, err := gate.CanAccessSemester(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
	assert.Equal(t, 1, decision.BlockingSemester)
	assert.Contains(t, decision.Reason, "not completed")
}

func TestCanAccessBlockedOnIncompleteLessons(t *testing.T) {
	store := &fakeStore{
		semesters: map[int]*SemesterInfo{1: {ID: 100, IsCompleted: true}},
		items: map[uint][]ContentItem{
			100: {lesson(1, 1), lesson(2, 2), lesson(3, 3), lesson(4, 4)},
		},
		completed: map[uint]bool{1: true},
	}
	gate := NewGate(store, 40)

	decision, err := gate.CanAccessSemester(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
	assert.Equal(t, 1, decision.BlockingSemester)
	assert.Equal(t, 25, decision.CompletionPercent)
}

func TestCanAccessBlockedOnFailedExam(t *testing.T) {
	store := &fakeStore{
		semesters: map[int]*SemesterInfo{1: {ID: 100, IsCompleted: true}},
		items: map[uint][]ContentItem{
			100: {lesson(1, 1), exam(10, 2, 100, 50)},
		},
		completed: map[uint]bool{1: true},
		results:   map[uint]ExamOutcome{10: {ObtainedMarks: 35, Percentage: 35}},
	}
	gate := NewGate(store, 40)

	decision, err := gate.CanAccessSemester(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
}

func TestCanAccessExamPassesAtFlatBar(t *testing.T) {
	// 40% clears the semester bar even when the exam's own pass marks
	// would demand more
	store := &fakeStore{
		semesters: map[int]*SemesterInfo{1: {ID: 100, IsCompleted: true}},
		items: map[uint][]ContentItem{
			100: {lesson(1, 1), exam(10, 2, 100, 60)},
		},
		completed: map[uint]bool{1: true},
		results:   map[uint]ExamOutcome{10: {ObtainedMarks: 40, Percentage: 40}},
	}
	gate := NewGate(store, 40)

	decision, err := gate.CanAccessSemester(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
}

func TestCanAccessMoreProgressNeverRevokes(t *testing.T) {
	// start from a configuration that just clears the gate, then pile on
	// extra completed lessons and passed exams: access must stay granted
	store := &fakeStore{
		semesters: map[int]*SemesterInfo{1: {ID: 100, IsCompleted: true}},
		items: map[uint][]ContentItem{
			100: {lesson(1, 1), exam(10, 2, 100, 60)},
		},
		completed: map[uint]bool{1: true},
		results:   map[uint]ExamOutcome{10: {ObtainedMarks: 40, Percentage: 40}},
	}
	gate := NewGate(store, 40)

	decision, err := gate.CanAccessSemester(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	require.True(t, decision.CanAccess)

	store.items[100] = append(store.items[100],
		lesson(2, 3), lesson(3, 4), exam(11, 5, 100, 40))
	store.completed[2] = true
	store.completed[3] = true
	store.results[10] = ExamOutcome{ObtainedMarks: 95, Percentage: 95}
	store.results[11] = ExamOutcome{ObtainedMarks: 100, Percentage: 100}

	decision, err = gate.CanAccessSemester(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
}

func TestCanAccessUnattemptedExamBlocks(t *testing.T) {
	store := &fakeStore{
		semesters: map[int]*SemesterInfo{1: {ID: 100, IsCompleted: true}},
		items: map[uint][]ContentItem{
			100: {exam(10, 1, 100, 40)},
		},
	}
	gate := NewGate(store, 40)

	decision, err := gate.CanAccessSemester(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
	assert.Equal(t, 0, decision.CompletionPercent)
}

func TestComputeSemesterProgress(t *testing.T) {
	store := &fakeStore{
		items: map[uint][]ContentItem{
			100: {lesson(1, 1), lesson(2, 2), exam(10, 3, 100, 40), exam(11, 4, 100, 40)},
		},
		completed: map[uint]bool{1: true, 2: true},
		results: map[uint]ExamOutcome{
			10: {ObtainedMarks: 80, Percentage: 80},
			11: {ObtainedMarks: 10, Percentage: 10},
		},
	}
	gate := NewGate(store, 40)

	progress, err := gate.ComputeSemesterProgress(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.LessonsCompleted)
	assert.Equal(t, 2, progress.TotalLessons)
	assert.Equal(t, 1, progress.ExamsPassed)
	assert.Equal(t, 2, progress.TotalExams)
	assert.Equal(t, 75, progress.OverallPercent)
}

func TestComputeSemesterProgressEmptySemester(t *testing.T) {
	gate := NewGate(&fakeStore{}, 40)

	progress, err := gate.ComputeSemesterProgress(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.OverallPercent)
}

func TestSequencerTimelineForUser(t *testing.T) {
	store := &fakeStore{
		items: map[uint][]ContentItem{
			5: {lesson(1, 1), exam(10, 2, 100, 40), lesson(2, 3)},
		},
		completed: map[uint]bool{1: true},
		results:   map[uint]ExamOutcome{10: {ObtainedMarks: 15, Percentage: 15}},
	}
	seq := NewSequencer(store, MarksPolicy{})

	timeline, err := seq.TimelineForUser(context.Background(), 1, ScopeRef{CourseID: 5})
	require.NoError(t, err)
	require.Len(t, timeline, 3)

	assert.True(t, timeline[0].IsCompleted)
	assert.True(t, timeline[1].IsCompleted)
	assert.False(t, timeline[1].IsPassed)
	assert.True(t, timeline[2].IsLocked)

	target, err := PickResumeTarget(timeline)
	require.NoError(t, err)
	assert.Equal(t, uint(10), target)
	assert.False(t, IsScopeFullyComplete(timeline))
}
