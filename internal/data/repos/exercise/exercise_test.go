package exercise

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/testutil"
	"github.com/voxhealth/voxhealth-backend/internal/domain"
)

func TestCompletionRepoCreateAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewCompletionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC).UnixMilli()
	completions := []*domain.ExerciseCompletion{
		{RecordID: uuid.New(), ID: "1_" + itoa(base), UserID: userID, ExerciseID: "1", Title: "Lip Trills", Difficulty: "Beginner", CompletedAt: base},
		{RecordID: uuid.New(), ID: "2_" + itoa(base+3600_000), UserID: userID, ExerciseID: "2", Title: "Humming Scales", Difficulty: "Beginner", CompletedAt: base + 3600_000},
	}
	if _, err := repo.Create(ctx, tx, completions); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByUser returned %d rows, want 2", len(got))
	}
	if got[0].ExerciseID != "1" || got[1].ExerciseID != "2" {
		t.Fatalf("ListByUser order wrong: %s then %s", got[0].ExerciseID, got[1].ExerciseID)
	}

	count, err := repo.CountByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if count != 2 {
		t.Fatalf("CountByUser=%d want 2", count)
	}

	other, err := repo.ListByUser(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("ListByUser (other user): %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other user sees %d rows, want 0", len(other))
	}
}

func TestCompletionRepoListBetween(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewCompletionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	dayStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	inDay := dayStart.Add(10 * time.Hour).UnixMilli()
	before := dayStart.Add(-1 * time.Hour).UnixMilli()
	after := dayStart.Add(25 * time.Hour).UnixMilli()

	rows := []*domain.ExerciseCompletion{
		{RecordID: uuid.New(), ID: "1_" + itoa(before), UserID: userID, ExerciseID: "1", Title: "Lip Trills", CompletedAt: before},
		{RecordID: uuid.New(), ID: "2_" + itoa(inDay), UserID: userID, ExerciseID: "2", Title: "Humming Scales", CompletedAt: inDay},
		{RecordID: uuid.New(), ID: "3_" + itoa(after), UserID: userID, ExerciseID: "3", Title: "Vocal Sirens", CompletedAt: after},
	}
	if _, err := repo.Create(ctx, tx, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByUserBetween(ctx, tx, userID,
		dayStart.UnixMilli(), dayStart.Add(24*time.Hour).UnixMilli())
	if err != nil {
		t.Fatalf("ListByUserBetween: %v", err)
	}
	if len(got) != 1 || got[0].ExerciseID != "2" {
		t.Fatalf("ListByUserBetween returned %+v, want the single in-day row", got)
	}
}

func TestStreakRepoGetMissingReturnsZeroState(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewStreakRepo(db, testutil.Logger(t))

	userID := uuid.New()
	got, err := repo.Get(context.Background(), tx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != userID || got.CurrentStreak != 0 || got.LongestStreak != 0 || got.LastCompletedDate != "" {
		t.Fatalf("missing streak should be zero-valued, got %+v", got)
	}
}

func TestStreakRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewStreakRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	history, _ := json.Marshal([]string{"2025-06-01"})
	first := &domain.ExerciseStreak{
		UserID:            userID,
		CurrentStreak:     1,
		LongestStreak:     1,
		LastCompletedDate: "2025-06-01",
		History:           history,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("Upsert (insert): %v", err)
	}

	history2, _ := json.Marshal([]string{"2025-06-01", "2025-06-02"})
	second := &domain.ExerciseStreak{
		UserID:            userID,
		CurrentStreak:     2,
		LongestStreak:     2,
		LastCompletedDate: "2025-06-02",
		History:           history2,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}

	got, err := repo.Get(ctx, tx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CurrentStreak != 2 || got.LongestStreak != 2 || got.LastCompletedDate != "2025-06-02" {
		t.Fatalf("streak not updated: %+v", got)
	}
	var days []string
	if err := json.Unmarshal(got.History, &days); err != nil {
		t.Fatalf("history unmarshal: %v", err)
	}
	if len(days) != 2 || days[1] != "2025-06-02" {
		t.Fatalf("history=%v want two days ending 2025-06-02", days)
	}
}

func itoa(millis int64) string {
	return strconv.FormatInt(millis, 10)
}
