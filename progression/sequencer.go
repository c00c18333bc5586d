package progression

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Sequencer assembles annotated timelines for a student over one scope.
// It holds no state beyond its collaborators; every call works on a fresh
// snapshot of the store.
type Sequencer struct {
	Store  Store
	Policy PassPolicy
}

// NewSequencer returns a Sequencer using the given pass policy
func NewSequencer(store Store, policy PassPolicy) *Sequencer {
	return &Sequencer{Store: store, Policy: policy}
}

// TimelineForUser fetches the scope's content and the student's progress
// records, then builds the timeline. The two per-student queries are
// independent reads and are issued concurrently.
func (s *Sequencer) TimelineForUser(ctx context.Context, userID uint, scope ScopeRef) ([]TimelineEntry, error) {
	items, err := s.Store.ListContentItems(ctx, scope)
	if err != nil {
		return nil, err
	}

	var lessonIDs, examIDs []uint
	for _, item := range items {
		switch item.Kind {
		case KindLesson:
			lessonIDs = append(lessonIDs, item.ID)
		case KindExam:
			examIDs = append(examIDs, item.ID)
		}
	}

	var (
		completed map[uint]bool
		results   map[uint]ExamOutcome
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		completed, err = s.Store.ListCompletedLessons(groupCtx, userID, lessonIDs)
		return err
	})
	group.Go(func() error {
		var err error
		results, err = s.Store.ListAuthoritativeResults(groupCtx, userID, examIDs)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return BuildTimeline(items, completed, results, s.Policy), nil
}
