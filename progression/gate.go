package progression

import (
	"context"
	"fmt"
	"math"
)

// ScopeRef identifies the unit a timeline is built over: a standalone
// course or one program semester. Exactly one field is set.
type ScopeRef struct {
	CourseID   uint
	SemesterID uint
}

// SemesterInfo is the projection of a semester the gate needs
type SemesterInfo struct {
	ID          uint
	IsCompleted bool
}

// Store supplies the record projections the sequencer and gate consume.
// All methods are read-only.
type Store interface {
	// ListContentItems returns all published content of a scope, order
	// not guaranteed.
	ListContentItems(ctx context.Context, scope ScopeRef) ([]ContentItem, error)
	// ListCompletedLessons returns the subset of lessonIDs the user has
	// completed.
	ListCompletedLessons(ctx context.Context, userID uint, lessonIDs []uint) (map[uint]bool, error)
	// ListAuthoritativeResults returns the latest result per exam for
	// the exams the user has attempted.
	ListAuthoritativeResults(ctx context.Context, userID uint, examIDs []uint) (map[uint]ExamOutcome, error)
	// GetSemester returns nil (no error) when the semester does not exist.
	GetSemester(ctx context.Context, programID uint, semesterNumber int) (*SemesterInfo, error)
}

// AccessDecision is the gate's answer to "may this student enter
// semester N".
type AccessDecision struct {
	CanAccess         bool   `json:"can_access"`
	Reason            string `json:"reason,omitempty"`
	BlockingSemester  int    `json:"blocking_semester,omitempty"`
	CompletionPercent int    `json:"completion_percent,omitempty"`
}

// SemesterProgress is the reporting payload for progress bars and admin
// dashboards.
type SemesterProgress struct {
	LessonsCompleted int `json:"lessons_completed"`
	TotalLessons     int `json:"total_lessons"`
	ExamsPassed      int `json:"exams_passed"`
	TotalExams       int `json:"total_exams"`
	OverallPercent   int `json:"overall_percent"`
}

// Gate decides semester access within a program. PassPercent is the flat
// pass bar for semester exams (40 unless configured otherwise).
type Gate struct {
	Store       Store
	PassPercent float64
}

// NewGate returns a Gate with the given pass percentage
func NewGate(store Store, passPercent float64) *Gate {
	return &Gate{Store: store, PassPercent: passPercent}
}

// CanAccessSemester evaluates the progression rules for semester n of a
// program:
//
//	1. semester 1 is always open
//	2. a missing previous semester never traps the student (fail-open)
//	3. staff must have marked the previous semester completed
//	4. every lesson of the previous semester must be completed
//	5. every exam of the previous semester must be passed
//
// Rule 3 short-circuits before any progress is computed, rule 4 before
// rule 5. The operation mutates nothing.
func (g *Gate) CanAccessSemester(ctx context.Context, userID, programID uint, semesterNumber int) (AccessDecision, error) {
	if semesterNumber <= 1 {
		return AccessDecision{CanAccess: true}, nil
	}

	prev, err := g.Store.GetSemester(ctx, programID, semesterNumber-1)
	if err != nil {
		return AccessDecision{}, err
	}
	if prev == nil {
		return AccessDecision{CanAccess: true}, nil
	}

	if !prev.IsCompleted {
		return AccessDecision{
			CanAccess:        false,
			Reason:           fmt.Sprintf("Semester %d is not completed yet. Please wait for it to finish.", semesterNumber-1),
			BlockingSemester: semesterNumber - 1,
		}, nil
	}

	items, err := g.Store.ListContentItems(ctx, ScopeRef{SemesterID: prev.ID})
	if err != nil {
		return AccessDecision{}, err
	}

	var lessonIDs, examIDs []uint
	examByID := make(map[uint]ContentItem)
	for _, item := range items {
		switch item.Kind {
		case KindLesson:
			lessonIDs = append(lessonIDs, item.ID)
		case KindExam:
			examIDs = append(examIDs, item.ID)
			examByID[item.ID] = item
		}
	}

	if len(lessonIDs) > 0 {
		completed, err := g.Store.ListCompletedLessons(ctx, userID, lessonIDs)
		if err != nil {
			return AccessDecision{}, err
		}
		if len(completed) < len(lessonIDs) {
			return AccessDecision{
				CanAccess:         false,
				Reason:            fmt.Sprintf("Please complete all lessons of semester %d first.", semesterNumber-1),
				BlockingSemester:  semesterNumber - 1,
				CompletionPercent: roundPercent(len(completed), len(lessonIDs)),
			}, nil
		}
	}

	if len(examIDs) > 0 {
		results, err := g.Store.ListAuthoritativeResults(ctx, userID, examIDs)
		if err != nil {
			return AccessDecision{}, err
		}
		policy := PercentPolicy{Threshold: g.PassPercent}
		passed := 0
		for id, outcome := range results {
			if policy.Passed(examByID[id], outcome) {
				passed++
			}
		}
		if passed < len(examIDs) {
			return AccessDecision{
				CanAccess:         false,
				Reason:            fmt.Sprintf("Please pass all exams of semester %d first.", semesterNumber-1),
				BlockingSemester:  semesterNumber - 1,
				CompletionPercent: roundPercent(passed, len(examIDs)),
			}, nil
		}
	}

	return AccessDecision{CanAccess: true}, nil
}

// ComputeSemesterProgress counts completed lessons and passed exams of one
// semester. OverallPercent is 0 when the semester has no content.
func (g *Gate) ComputeSemesterProgress(ctx context.Context, userID, semesterID uint) (SemesterProgress, error) {
	items, err := g.Store.ListContentItems(ctx, ScopeRef{SemesterID: semesterID})
	if err != nil {
		return SemesterProgress{}, err
	}

	var lessonIDs, examIDs []uint
	examByID := make(map[uint]ContentItem)
	for _, item := range items {
		switch item.Kind {
		case KindLesson:
			lessonIDs = append(lessonIDs, item.ID)
		case KindExam:
			examIDs = append(examIDs, item.ID)
			examByID[item.ID] = item
		}
	}

	progress := SemesterProgress{
		TotalLessons: len(lessonIDs),
		TotalExams:   len(examIDs),
	}

	if len(lessonIDs) > 0 {
		completed, err := g.Store.ListCompletedLessons(ctx, userID, lessonIDs)
		if err != nil {
			return SemesterProgress{}, err
		}
		progress.LessonsCompleted = len(completed)
	}

	if len(examIDs) > 0 {
		results, err := g.Store.ListAuthoritativeResults(ctx, userID, examIDs)
		if err != nil {
			return SemesterProgress{}, err
		}
		policy := PercentPolicy{Threshold: g.PassPercent}
		for id, outcome := range results {
			if policy.Passed(examByID[id], outcome) {
				progress.ExamsPassed++
			}
		}
	}

	progress.OverallPercent = roundPercent(
		progress.LessonsCompleted+progress.ExamsPassed,
		progress.TotalLessons+progress.TotalExams,
	)
	return progress, nil
}

func roundPercent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
