package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/exercise"
	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/requestdata"
	"github.com/voxhealth/voxhealth-backend/internal/sse"
	"github.com/voxhealth/voxhealth-backend/internal/streak"
)

// StreakInfo is the API-facing streak snapshot.
type StreakInfo struct {
	CurrentStreak     int      `json:"current_streak"`
	LongestStreak     int      `json:"longest_streak"`
	LastCompletedDate string   `json:"last_completed_date,omitempty"`
	CompletedToday    bool     `json:"completed_today"`
	History           []string `json:"history"`
}

// Progress is the dashboard snapshot: streak state plus today's work.
// CompletedExerciseIDs holds the distinct catalog ids completed today so
// clients can mark individual exercises done without filtering the log.
type Progress struct {
	Streak               StreakInfo                   `json:"streak"`
	TodayCompletions     []*domain.ExerciseCompletion `json:"today_completions"`
	CompletedExerciseIDs []string                     `json:"completed_exercise_ids"`
	CompletionPercentage int                          `json:"completion_percentage"`
	TotalCompletions     int64                        `json:"total_completions"`
}

type CompleteResult struct {
	Completion    *domain.ExerciseCompletion `json:"completion"`
	Streak        StreakInfo                 `json:"streak"`
	StreakChanged bool                       `json:"streak_changed"`
}

type ExerciseService interface {
	Catalog() []domain.ExerciseDefinition
	Complete(ctx context.Context, exerciseID string) (*CompleteResult, error)
	GetProgress(ctx context.Context) (*Progress, error)
	History(ctx context.Context, date string) ([]*domain.ExerciseCompletion, error)
}

type exerciseService struct {
	db             *gorm.DB
	log            *logger.Logger
	completionRepo exercise.CompletionRepo
	streakRepo     exercise.StreakRepo
	notifier       Notifier

	// injectable for tests
	now func() time.Time
}

func NewExerciseService(
	db *gorm.DB,
	log *logger.Logger,
	completionRepo exercise.CompletionRepo,
	streakRepo exercise.StreakRepo,
	notifier Notifier,
) ExerciseService {
	return &exerciseService{
		db:             db,
		log:            log.With("service", "ExerciseService"),
		completionRepo: completionRepo,
		streakRepo:     streakRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

func (es *exerciseService) Catalog() []domain.ExerciseDefinition {
	return domain.DefaultCatalog
}

func (es *exerciseService) Complete(ctx context.Context, exerciseID string) (*CompleteResult, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}

	def := domain.FindExercise(exerciseID)
	if def == nil {
		return nil, fmt.Errorf("unknown exercise %q: %w", exerciseID, apperr.ErrNotFound)
	}

	at := es.now()
	completion := &domain.ExerciseCompletion{
		RecordID:    uuid.New(),
		ID:          fmt.Sprintf("%s_%d", def.ID, at.UnixMilli()),
		UserID:      userID,
		ExerciseID:  def.ID,
		Title:       def.Title,
		Difficulty:  def.Difficulty,
		CompletedAt: at.UnixMilli(),
	}

	var (
		nextState streak.State
		changed   bool
	)
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := es.completionRepo.Create(ctx, tx, []*domain.ExerciseCompletion{completion}); err != nil {
			return fmt.Errorf("append completion: %w", err)
		}

		row, err := es.streakRepo.Get(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load streak: %w", err)
		}
		state, err := stateFromRow(row)
		if err != nil {
			return fmt.Errorf("decode streak history: %w", err)
		}

		nextState, changed = streak.Advance(state, at)
		if !changed {
			return nil
		}

		next, err := rowFromState(userID, nextState, at)
		if err != nil {
			return fmt.Errorf("encode streak history: %w", err)
		}
		if err := es.streakRepo.Upsert(ctx, tx, next); err != nil {
			return fmt.Errorf("save streak: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CompleteResult{
		Completion:    completion,
		Streak:        streakInfo(nextState, at),
		StreakChanged: changed,
	}

	if es.notifier != nil {
		es.notifier.Notify(ctx, userID, sse.EventExerciseCompleted, completion)
		if changed {
			es.notifier.Notify(ctx, userID, sse.EventStreakUpdated, result.Streak)
		}
	}
	return result, nil
}

func (es *exerciseService) GetProgress(ctx context.Context) (*Progress, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}

	at := es.now()

	row, err := es.streakRepo.Get(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	state, err := stateFromRow(row)
	if err != nil {
		return nil, fmt.Errorf("decode streak history: %w", err)
	}

	from, to := dayBounds(at)
	today, err := es.completionRepo.ListByUserBetween(ctx, nil, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list today's completions: %w", err)
	}

	total, err := es.completionRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count completions: %w", err)
	}

	return &Progress{
		Streak:               streakInfo(state, at),
		TodayCompletions:     today,
		CompletedExerciseIDs: distinctExerciseIDs(today),
		CompletionPercentage: completionPercentage(today),
		TotalCompletions:     total,
	}, nil
}

func (es *exerciseService) History(ctx context.Context, date string) ([]*domain.ExerciseCompletion, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}

	day, err := time.Parse(streak.DayFormat, date)
	if err != nil {
		return nil, fmt.Errorf("bad date %q (want YYYY-MM-DD): %w", date, apperr.ErrInvalidArgument)
	}

	from, to := dayBounds(day)
	completions, err := es.completionRepo.ListByUserBetween(ctx, nil, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list completions for %s: %w", date, err)
	}
	return completions, nil
}

// distinctExerciseIDs keeps catalog order so the result is stable.
func distinctExerciseIDs(today []*domain.ExerciseCompletion) []string {
	seen := map[string]bool{}
	for _, c := range today {
		seen[c.ExerciseID] = true
	}
	ids := make([]string, 0, len(seen))
	for _, def := range domain.DefaultCatalog {
		if seen[def.ID] {
			ids = append(ids, def.ID)
		}
	}
	return ids
}

// completionPercentage is distinct exercises completed today over the
// catalog size, capped at 100.
func completionPercentage(today []*domain.ExerciseCompletion) int {
	pct := len(distinctExerciseIDs(today)) * 100 / len(domain.DefaultCatalog)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// dayBounds returns [start, end) of the UTC day containing at, in epoch
// millis.
func dayBounds(at time.Time) (int64, int64) {
	u := at.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start.UnixMilli(), start.Add(24 * time.Hour).UnixMilli()
}

func streakInfo(s streak.State, at time.Time) StreakInfo {
	history := s.History
	if history == nil {
		history = []string{}
	}
	return StreakInfo{
		CurrentStreak:     s.Current,
		LongestStreak:     s.Longest,
		LastCompletedDate: s.LastCompletedDate,
		CompletedToday:    s.CompletedToday(at),
		History:           history,
	}
}

func stateFromRow(row *domain.ExerciseStreak) (streak.State, error) {
	s := streak.State{
		Current:           row.CurrentStreak,
		Longest:           row.LongestStreak,
		LastCompletedDate: row.LastCompletedDate,
	}
	if len(row.History) > 0 {
		if err := json.Unmarshal(row.History, &s.History); err != nil {
			return streak.State{}, err
		}
	}
	return s, nil
}

func rowFromState(userID uuid.UUID, s streak.State, at time.Time) (*domain.ExerciseStreak, error) {
	history, err := json.Marshal(s.History)
	if err != nil {
		return nil, err
	}
	return &domain.ExerciseStreak{
		UserID:            userID,
		CurrentStreak:     s.Current,
		LongestStreak:     s.Longest,
		LastCompletedDate: s.LastCompletedDate,
		History:           history,
		UpdatedAt:         at.UTC(),
	}, nil
}
