package services

import (
	"sync"
	"testing"
	"time"

	"season-quiz-backend/internal/apperrors"
	"season-quiz-backend/internal/models"
)

func TestStartSeasonCreatesProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)
	season := seedActiveSeason(t, db)

	progress, err := svc.Start(1, season.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if progress.IsCompleted {
		t.Fatal("new progress must not be completed")
	}
	if progress.StartTime.IsZero() {
		t.Fatal("start time not recorded")
	}
	if progress.EndTime != nil {
		t.Fatal("end time must be unset until completion")
	}
}

func TestStartSeasonIdempotentWhileInProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)
	season := seedActiveSeason(t, db)

	first, err := svc.Start(1, season.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	second, err := svc.Start(1, season.ID)
	if err != nil {
		t.Fatalf("repeat start failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same progress row, got %d and %d", first.ID, second.ID)
	}

	var count int64
	db.Model(&models.SeasonProgress{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 progress row, got %d", count)
	}
}

func TestStartSeasonRejectsCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)
	season := seedActiveSeason(t, db)

	if _, err := svc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.Complete(1, season.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	_, err := svc.Start(1, season.ID)
	if apperrors.KindOf(err) != apperrors.KindBadRequest {
		t.Fatalf("expected bad request for completed season, got %v", err)
	}
}

func TestStartSeasonNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)

	_, err := svc.Start(1, 999)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStartSeasonWindowIsInclusive(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC),
	)

	svc.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }
	_, err := svc.Start(1, season.ID)
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("expected forbidden after window close, got %v", err)
	}

	svc.now = func() time.Time { return time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC) }
	if _, err := svc.Start(2, season.ID); err != nil {
		t.Fatalf("start at the final second of the window failed: %v", err)
	}

	svc.now = func() time.Time { return time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC) }
	_, err = svc.Start(3, season.ID)
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("expected forbidden before window open, got %v", err)
	}
}

func TestStartSeasonConcurrent(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)
	season := seedActiveSeason(t, db)

	const workers = 8
	results := make([]*models.SeasonProgress, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Start(1, season.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d failed: %v", i, errs[i])
		}
		if results[i].ID != results[0].ID {
			t.Fatalf("worker %d observed a different row: %d vs %d", i, results[i].ID, results[0].ID)
		}
	}

	var count int64
	db.Model(&models.SeasonProgress{}).Where("user_id = ? AND season_id = ?", 1, season.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 progress row, got %d", count)
	}
}

func TestCompleteSeason(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)
	season := seedActiveSeason(t, db)

	if _, err := svc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	progress, err := svc.Complete(1, season.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !progress.IsCompleted {
		t.Fatal("progress not marked completed")
	}
	if progress.EndTime == nil {
		t.Fatal("end time not set on completion")
	}

	_, err = svc.Complete(1, season.ID)
	if apperrors.KindOf(err) != apperrors.KindBadRequest {
		t.Fatalf("expected bad request on repeat completion, got %v", err)
	}

	// The stored row must never revert.
	var stored models.SeasonProgress
	db.Where("user_id = ? AND season_id = ?", 1, season.ID).First(&stored)
	if !stored.IsCompleted {
		t.Fatal("stored progress reverted to incomplete")
	}
}

func TestCompleteSeasonWithoutStart(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)
	season := seedActiveSeason(t, db)

	_, err := svc.Complete(1, season.ID)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSeasonFindAllFiltersByDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)

	seedSeason(t, db,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC),
	)
	seedSeason(t, db,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
	)

	date := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	page, err := svc.FindAll(SeasonFilter{Date: &date})
	if err != nil {
		t.Fatalf("find all failed: %v", err)
	}
	if len(page.Data) != 1 {
		t.Fatalf("expected 1 season in window, got %d", len(page.Data))
	}
	if page.Meta.Total != 1 || page.Meta.Page != 1 || page.Meta.Limit != 10 {
		t.Fatalf("unexpected meta: %+v", page.Meta)
	}
}

func TestSeasonFindAllRejectsNonPositivePaging(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)

	if _, err := svc.FindAll(SeasonFilter{Page: -1}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error for negative page, got %v", err)
	}
	if _, err := svc.FindAll(SeasonFilter{Limit: -5}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error for negative limit, got %v", err)
	}
}

func TestDeleteSeasonRefusesWithParticipations(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)
	season := seedActiveSeason(t, db)

	if _, err := svc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	err := svc.Delete(season.ID)
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteSeasonRemovesQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeasonService(db)
	season := seedActiveSeason(t, db)
	seedQuestion(t, db, season.ID, 1, "a")
	seedQuestion(t, db, season.ID, 2, "b")

	if err := svc.Delete(season.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var count int64
	db.Model(&models.Question{}).Where("season_id = ?", season.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected questions removed with season, %d remain", count)
	}
}
