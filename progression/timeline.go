package progression

import (
	"errors"
	"sort"
)

// ItemKind distinguishes the two content streams that share one order
// sequence within a scope.
type ItemKind string

const (
	KindLesson ItemKind = "LESSON"
	KindExam   ItemKind = "EXAM"
)

// ErrNoContent is returned when a scope has no published content
var ErrNoContent = errors.New("scope has no content")

// ContentItem is a projection of a lesson or exam as the sequencer needs
// it. Kind-specific fields are zero for the other kind.
type ContentItem struct {
	ID         uint     `json:"id"`
	Kind       ItemKind `json:"kind"`
	OrderIndex int      `json:"order_index"`

	// lesson fields
	DurationSeconds int  `json:"duration_seconds,omitempty"`
	IsFree          bool `json:"is_free,omitempty"`

	// exam fields
	TotalMarks    int `json:"total_marks,omitempty"`
	PassMarks     int `json:"pass_marks,omitempty"`
	QuestionCount int `json:"question_count,omitempty"`
}

// ExamOutcome is the authoritative (latest) result of a student for one
// exam. Presence in the results map means the exam was attempted.
type ExamOutcome struct {
	ObtainedMarks int     `json:"obtained_marks"`
	Percentage    float64 `json:"percentage"`
}

// TimelineEntry is one item of the annotated timeline rendered by the
// watch page.
type TimelineEntry struct {
	ID            uint     `json:"id"`
	Kind          ItemKind `json:"kind"`
	OrderIndex    int      `json:"order_index"`
	IsCompleted   bool     `json:"is_completed"`
	IsPassed      bool     `json:"is_passed,omitempty"`
	IsLocked      bool     `json:"is_locked"`
	ObtainedMarks int      `json:"obtained_marks,omitempty"`
}

// PassPolicy decides whether an exam outcome clears its exam. Courses and
// program semesters historically use different rules, so the rule is
// injected per scope rather than hardcoded.
type PassPolicy interface {
	Passed(item ContentItem, outcome ExamOutcome) bool
}

// MarksPolicy passes when obtained marks reach the exam's own pass marks.
// Used for standalone course exams.
type MarksPolicy struct{}

func (MarksPolicy) Passed(item ContentItem, outcome ExamOutcome) bool {
	return outcome.ObtainedMarks >= item.PassMarks
}

// PercentPolicy passes at a flat percentage bar regardless of the exam's
// pass marks. Used for program-semester exams.
type PercentPolicy struct {
	Threshold float64
}

func (p PercentPolicy) Passed(item ContentItem, outcome ExamOutcome) bool {
	return outcome.Percentage >= p.Threshold
}

// BuildTimeline merges a scope's lessons and exams into one ordered
// timeline annotated with the student's completion and lock state.
//
// Entries are sorted by OrderIndex ascending; equal indexes keep their
// input order (order assignment is a best-effort shared counter, so
// duplicates can exist). Lessons never lock anything. An unpassed exam
// locks every entry after it: the lock propagates forward once triggered.
func BuildTimeline(items []ContentItem, completedLessons map[uint]bool, results map[uint]ExamOutcome, policy PassPolicy) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(items))
	for _, item := range items {
		entry := TimelineEntry{
			ID:         item.ID,
			Kind:       item.Kind,
			OrderIndex: item.OrderIndex,
		}
		switch item.Kind {
		case KindLesson:
			entry.IsCompleted = completedLessons[item.ID]
		case KindExam:
			if outcome, ok := results[item.ID]; ok {
				// attempted counts as completed even when failed
				entry.IsCompleted = true
				entry.IsPassed = policy.Passed(item, outcome)
				entry.ObtainedMarks = outcome.ObtainedMarks
			}
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OrderIndex < entries[j].OrderIndex
	})

	// Lock sweep: an entry is locked when the previous entry is an
	// unpassed exam, or is itself locked.
	for i := 1; i < len(entries); i++ {
		prev := entries[i-1]
		if prev.IsLocked || (prev.Kind == KindExam && !prev.IsPassed) {
			entries[i].IsLocked = true
		}
	}

	return entries
}

// PickResumeTarget returns the id of the entry the watch page should open:
// the first entry that is neither locked nor done (a lesson is done when
// completed, an exam only when passed — a failed attempt stays the
// target until cleared). When everything is done it returns the last
// entry's id so navigation lands on the final content.
func PickResumeTarget(timeline []TimelineEntry) (uint, error) {
	if len(timeline) == 0 {
		return 0, ErrNoContent
	}
	for _, entry := range timeline {
		if entry.IsLocked {
			continue
		}
		if entry.Kind == KindExam && !entry.IsPassed {
			return entry.ID, nil
		}
		if entry.Kind == KindLesson && !entry.IsCompleted {
			return entry.ID, nil
		}
	}
	return timeline[len(timeline)-1].ID, nil
}

// IsScopeFullyComplete reports whether every lesson is completed and every
// exam is passed. An empty timeline is never complete, so an empty course
// cannot vacuously earn a certificate.
func IsScopeFullyComplete(timeline []TimelineEntry) bool {
	if len(timeline) == 0 {
		return false
	}
	for _, entry := range timeline {
		switch entry.Kind {
		case KindLesson:
			if !entry.IsCompleted {
				return false
			}
		case KindExam:
			if !entry.IsPassed {
				return false
			}
		}
	}
	return true
}
