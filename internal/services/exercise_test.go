package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/exercise"
	"github.com/voxhealth/voxhealth-backend/internal/data/repos/testutil"
	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
)

func newExerciseService(t *testing.T) (*exerciseService, *time.Time) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewExerciseService(
		db,
		log,
		exercise.NewCompletionRepo(db, log),
		exercise.NewStreakRepo(db, log),
		nil,
	).(*exerciseService)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := &now
	svc.now = func() time.Time { return *clock }
	return svc, clock
}

func TestCompleteUnknownExercise(t *testing.T) {
	svc, _ := newExerciseService(t)
	_, err := svc.Complete(authedCtx(uuid.New()), "99")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

func TestCompleteUnauthenticated(t *testing.T) {
	svc, _ := newExerciseService(t)
	_, err := svc.Complete(context.Background(), "1")
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("err=%v want ErrUnauthenticated", err)
	}
}

func TestCompleteBuildsStreakAcrossDays(t *testing.T) {
	svc, clock := newExerciseService(t)
	ctx := authedCtx(uuid.New())

	res, err := svc.Complete(ctx, "1")
	if err != nil {
		t.Fatalf("Complete day 1: %v", err)
	}
	if !res.StreakChanged || res.Streak.CurrentStreak != 1 {
		t.Fatalf("day 1: %+v", res.Streak)
	}
	if res.Completion.ID == "" || res.Completion.Title != "Lip Trills" {
		t.Fatalf("completion: %+v", res.Completion)
	}

	// Second exercise the same day: logged, but streak unchanged.
	*clock = clock.Add(4 * time.Hour)
	res, err = svc.Complete(ctx, "2")
	if err != nil {
		t.Fatalf("Complete same day: %v", err)
	}
	if res.StreakChanged {
		t.Fatalf("same-day completion changed streak")
	}

	// Next day extends.
	*clock = clock.Add(24 * time.Hour)
	res, err = svc.Complete(ctx, "1")
	if err != nil {
		t.Fatalf("Complete day 2: %v", err)
	}
	if res.Streak.CurrentStreak != 2 || res.Streak.LongestStreak != 2 {
		t.Fatalf("day 2: %+v", res.Streak)
	}

	// Skip a day: reset to 1, longest stays.
	*clock = clock.Add(48 * time.Hour)
	res, err = svc.Complete(ctx, "3")
	if err != nil {
		t.Fatalf("Complete after gap: %v", err)
	}
	if res.Streak.CurrentStreak != 1 || res.Streak.LongestStreak != 2 {
		t.Fatalf("after gap: %+v", res.Streak)
	}
}

func TestCompleteSameInstantDoesNotCollide(t *testing.T) {
	svc, _ := newExerciseService(t)

	// Two users at the same frozen instant produce the same display id;
	// both completions must land.
	alice := authedCtx(uuid.New())
	bob := authedCtx(uuid.New())

	a, err := svc.Complete(alice, "1")
	if err != nil {
		t.Fatalf("Complete (alice): %v", err)
	}
	b, err := svc.Complete(bob, "1")
	if err != nil {
		t.Fatalf("Complete (bob): %v", err)
	}
	if a.Completion.ID != b.Completion.ID {
		t.Fatalf("display ids differ at same instant: %q vs %q", a.Completion.ID, b.Completion.ID)
	}

	// Same user double-submitting in one millisecond is still appended.
	if _, err := svc.Complete(alice, "1"); err != nil {
		t.Fatalf("Complete (alice, repeat): %v", err)
	}
	p, err := svc.GetProgress(alice)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if p.TotalCompletions != 2 {
		t.Fatalf("total=%d want 2", p.TotalCompletions)
	}
}

func TestGetProgress(t *testing.T) {
	svc, clock := newExerciseService(t)
	userID := uuid.New()
	ctx := authedCtx(userID)

	// Yesterday: one exercise.
	if _, err := svc.Complete(ctx, "1"); err != nil {
		t.Fatalf("Complete yesterday: %v", err)
	}

	// Today: two distinct exercises, one repeated.
	*clock = clock.Add(24 * time.Hour)
	for _, id := range []string{"1", "2", "1"} {
		*clock = clock.Add(time.Minute)
		if _, err := svc.Complete(ctx, id); err != nil {
			t.Fatalf("Complete today (%s): %v", id, err)
		}
	}

	p, err := svc.GetProgress(ctx)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if p.Streak.CurrentStreak != 2 || !p.Streak.CompletedToday {
		t.Fatalf("streak: %+v", p.Streak)
	}
	if len(p.TodayCompletions) != 3 {
		t.Fatalf("today completions=%d want 3", len(p.TodayCompletions))
	}
	// 2 distinct of 4 catalog entries.
	if p.CompletionPercentage != 50 {
		t.Fatalf("completion percentage=%d want 50", p.CompletionPercentage)
	}
	if len(p.CompletedExerciseIDs) != 2 ||
		p.CompletedExerciseIDs[0] != "1" || p.CompletedExerciseIDs[1] != "2" {
		t.Fatalf("completed ids=%v want [1 2]", p.CompletedExerciseIDs)
	}
	if p.TotalCompletions != 4 {
		t.Fatalf("total=%d want 4", p.TotalCompletions)
	}
}

func TestHistoryByDate(t *testing.T) {
	svc, clock := newExerciseService(t)
	ctx := authedCtx(uuid.New())

	if _, err := svc.Complete(ctx, "1"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	day1 := clock.UTC().Format("2006-01-02")

	*clock = clock.Add(24 * time.Hour)
	if _, err := svc.Complete(ctx, "2"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	got, err := svc.History(ctx, day1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 1 || got[0].ExerciseID != "1" {
		t.Fatalf("history for %s: %+v", day1, got)
	}

	if _, err := svc.History(ctx, "junk"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("bad date err=%v want ErrInvalidArgument", err)
	}
}

func TestCatalogShape(t *testing.T) {
	svc, _ := newExerciseService(t)
	catalog := svc.Catalog()
	if len(catalog) != 4 {
		t.Fatalf("catalog size=%d want 4", len(catalog))
	}
	if catalog[0].ID != "1" || catalog[0].Title != "Lip Trills" {
		t.Fatalf("first entry: %+v", catalog[0])
	}
	for _, e := range catalog {
		if len(e.Benefits) == 0 || len(e.Steps) == 0 {
			t.Fatalf("entry %s missing benefits or steps", e.ID)
		}
	}
}
