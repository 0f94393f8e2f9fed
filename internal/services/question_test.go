package services

import (
	"sync"
	"testing"

	"season-quiz-backend/internal/apperrors"
	"season-quiz-backend/internal/models"
)

func newQuestionFixture(t *testing.T) (*SeasonService, *QuestionService, *models.Season) {
	t.Helper()
	db := newTestDB(t)
	seasonSvc := NewSeasonService(db)
	questionSvc := NewQuestionService(db, seasonSvc)
	return seasonSvc, questionSvc, seedActiveSeason(t, db)
}

func TestFindOneRequiresSeasonStart(t *testing.T) {
	_, svc, season := newQuestionFixture(t)
	question := seedQuestion(t, svc.db, season.ID, 1, "Paris")

	_, err := svc.FindOne(question.ID, 1)
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("expected forbidden before season start, got %v", err)
	}
}

func TestFindOneUnknownQuestion(t *testing.T) {
	_, svc, _ := newQuestionFixture(t)

	_, err := svc.FindOne(999, 1)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitAnswerScoring(t *testing.T) {
	seasonSvc, svc, season := newQuestionFixture(t)
	q1 := seedQuestion(t, svc.db, season.ID, 1, "paris")
	q2 := seedQuestion(t, svc.db, season.ID, 2, "Paris")

	if _, err := seasonSvc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Case-insensitive match.
	result, err := svc.SubmitAnswer(q1.ID, "Paris", 1)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !result.IsCorrect || result.Points != 10 {
		t.Fatalf("expected correct answer worth 10 points, got %+v", result.QuestionAttempt)
	}
	if result.CorrectAnswer != "paris" || result.Explanation != "because" {
		t.Fatalf("expected answer key and explanation in result, got %+v", result)
	}

	// No trimming: a trailing space is a different answer.
	result, err = svc.SubmitAnswer(q2.ID, "Paris ", 1)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.IsCorrect || result.Points != 0 {
		t.Fatalf("expected trailing-space answer to score 0, got %+v", result.QuestionAttempt)
	}
}

func TestSubmitAnswerRecordsSingleInstant(t *testing.T) {
	seasonSvc, svc, season := newQuestionFixture(t)
	question := seedQuestion(t, svc.db, season.ID, 1, "42")

	if _, err := seasonSvc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	result, err := svc.SubmitAnswer(question.ID, "42", 1)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !result.StartTime.Equal(result.EndTime) {
		t.Fatalf("attempt must record a single instant, got %v / %v", result.StartTime, result.EndTime)
	}
}

func TestSubmitAnswerOnlyOnce(t *testing.T) {
	seasonSvc, svc, season := newQuestionFixture(t)
	question := seedQuestion(t, svc.db, season.ID, 1, "Paris")

	if _, err := seasonSvc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.SubmitAnswer(question.ID, "Paris", 1); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err := svc.SubmitAnswer(question.ID, "London", 1)
	if apperrors.KindOf(err) != apperrors.KindBadRequest {
		t.Fatalf("expected bad request on repeat attempt, got %v", err)
	}

	// The first attempt must be untouched.
	var stored models.QuestionAttempt
	svc.db.Where("user_id = ? AND question_id = ?", 1, question.ID).First(&stored)
	if stored.Answer != "Paris" || !stored.IsCorrect {
		t.Fatalf("original attempt was modified: %+v", stored)
	}
}

func TestSubmitAnswerConcurrent(t *testing.T) {
	seasonSvc, svc, season := newQuestionFixture(t)
	question := seedQuestion(t, svc.db, season.ID, 1, "Paris")

	if _, err := seasonSvc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	const workers = 6
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubmitAnswer(question.ID, "Paris", 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i := 0; i < workers; i++ {
		if errs[i] == nil {
			succeeded++
			continue
		}
		if apperrors.KindOf(errs[i]) != apperrors.KindBadRequest {
			t.Fatalf("worker %d got unexpected error: %v", i, errs[i])
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly 1 successful submission, got %d", succeeded)
	}

	var count int64
	svc.db.Model(&models.QuestionAttempt{}).
		Where("user_id = ? AND question_id = ?", 1, question.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 stored attempt, got %d", count)
	}
}

func TestSubmitAnswerBeforeStartForbidden(t *testing.T) {
	_, svc, season := newQuestionFixture(t)
	question := seedQuestion(t, svc.db, season.ID, 1, "Paris")

	_, err := svc.SubmitAnswer(question.ID, "Paris", 1)
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSubmitAnswerAfterCompletion(t *testing.T) {
	seasonSvc, svc, season := newQuestionFixture(t)
	question := seedQuestion(t, svc.db, season.ID, 1, "Paris")

	if _, err := seasonSvc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := seasonSvc.Complete(1, season.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	// Never-attempted question, but the season is closed for this user.
	_, err := svc.SubmitAnswer(question.ID, "Paris", 1)
	if apperrors.KindOf(err) != apperrors.KindBadRequest {
		t.Fatalf("expected bad request after completion, got %v", err)
	}
}

func TestFindBySeasonOrdersAndAnnotates(t *testing.T) {
	seasonSvc, svc, season := newQuestionFixture(t)
	seedQuestion(t, svc.db, season.ID, 2, "b")
	first := seedQuestion(t, svc.db, season.ID, 1, "a")
	seedQuestion(t, svc.db, season.ID, 3, "c")

	if _, err := seasonSvc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.SubmitAnswer(first.ID, "a", 1); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	questions, err := svc.FindBySeason(season.ID, 1)
	if err != nil {
		t.Fatalf("find by season failed: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.OrderIndex != i+1 {
			t.Fatalf("questions out of order: index %d at position %d", q.OrderIndex, i)
		}
	}
	if questions[0].Attempt == nil || !questions[0].Attempt.IsCorrect {
		t.Fatalf("expected an attempt on the first question, got %+v", questions[0].Attempt)
	}
	if questions[1].Attempt != nil || questions[2].Attempt != nil {
		t.Fatal("unattempted questions must carry no attempt")
	}
}

func TestFindBySeasonRequiresStart(t *testing.T) {
	_, svc, season := newQuestionFixture(t)
	seedQuestion(t, svc.db, season.ID, 1, "a")

	_, err := svc.FindBySeason(season.ID, 1)
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestQuestionPagination(t *testing.T) {
	_, svc, season := newQuestionFixture(t)
	for i := 1; i <= 23; i++ {
		seedQuestion(t, svc.db, season.ID, i, "x")
	}

	for page, want := range map[int]int{1: 10, 2: 10, 3: 3} {
		result, err := svc.FindAll(QuestionFilter{SeasonID: season.ID, Page: page, Limit: 10})
		if err != nil {
			t.Fatalf("page %d failed: %v", page, err)
		}
		if len(result.Data) != want {
			t.Fatalf("page %d: expected %d rows, got %d", page, want, len(result.Data))
		}
		if result.Meta.TotalPages != 3 || result.Meta.Total != 23 {
			t.Fatalf("page %d: unexpected meta %+v", page, result.Meta)
		}
	}
}

func TestUpdateQuestionKeepsSeason(t *testing.T) {
	_, svc, season := newQuestionFixture(t)
	question := seedQuestion(t, svc.db, season.ID, 1, "a")

	content := "updated content"
	updated, err := svc.Update(question.ID, UpdateQuestionInput{Content: &content})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Content != content {
		t.Fatalf("content not updated: %q", updated.Content)
	}
	if updated.SeasonID != season.ID {
		t.Fatalf("update moved the question to season %d", updated.SeasonID)
	}
}

func TestCreateQuestionUnknownSeason(t *testing.T) {
	_, svc, _ := newQuestionFixture(t)

	_, err := svc.Create(QuestionInput{SeasonID: 999, Content: "q", Answer: "a"})
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteQuestionRemovesAttempts(t *testing.T) {
	seasonSvc, svc, season := newQuestionFixture(t)
	question := seedQuestion(t, svc.db, season.ID, 1, "a")

	if _, err := seasonSvc.Start(1, season.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.SubmitAnswer(question.ID, "a", 1); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := svc.Delete(question.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var count int64
	svc.db.Model(&models.QuestionAttempt{}).Where("question_id = ?", question.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected attempts removed with question, %d remain", count)
	}
}
