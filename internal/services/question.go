package services

import (
	"encoding/json"
	"errors"
	"strings"

	"season-quiz-backend/internal/apperrors"
	"season-quiz-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Points awarded for a correct answer. No partial credit.
const correctAnswerPoints = 10

type QuestionService struct {
	db     *gorm.DB
	season *SeasonService
}

func NewQuestionService(db *gorm.DB, season *SeasonService) *QuestionService {
	return &QuestionService{db: db, season: season}
}

type QuestionInput struct {
	SeasonID    uint
	Content     string
	Options     []string
	Answer      string
	Explanation string
	OrderIndex  int
}

type UpdateQuestionInput struct {
	Content     *string
	Options     []string
	Answer      *string
	Explanation *string
	OrderIndex  *int
}

type QuestionFilter struct {
	SeasonID uint
	Page     int
	Limit    int
}

type QuestionPage struct {
	Data []models.Question `json:"data"`
	Meta PageMeta          `json:"meta"`
}

// QuestionWithProgress pairs a question with the caller's participation in
// its season, read in one consistent snapshot.
type QuestionWithProgress struct {
	Question models.Question
	Progress models.SeasonProgress
}

type QuestionWithAttempt struct {
	models.Question
	Attempt *models.QuestionAttempt `json:"attempt,omitempty"`
}

// AttemptResult is returned from a submission so the caller gets immediate
// feedback: the stored attempt plus the answer key and explanation.
type AttemptResult struct {
	models.QuestionAttempt
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

func (s *QuestionService) Create(input QuestionInput) (*models.Question, error) {
	var season models.Season
	if err := s.db.First(&season, input.SeasonID).Error; err != nil {
		return nil, apperrors.NotFound("season not found")
	}

	question := models.Question{
		SeasonID:    input.SeasonID,
		Content:     input.Content,
		Answer:      input.Answer,
		Explanation: input.Explanation,
		OrderIndex:  input.OrderIndex,
	}
	if len(input.Options) > 0 {
		raw, err := json.Marshal(input.Options)
		if err != nil {
			return nil, err
		}
		question.Options = datatypes.JSON(raw)
	}

	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) FindAll(filter QuestionFilter) (*QuestionPage, error) {
	page, limit, err := normalizePage(filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}

	query := s.db.Model(&models.Question{})
	if filter.SeasonID != 0 {
		query = query.Where("season_id = ?", filter.SeasonID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var questions []models.Question
	err = query.
		Order("order_index ASC, id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	return &QuestionPage{
		Data: questions,
		Meta: pageMeta(total, page, limit),
	}, nil
}

// FindOne is the eligibility check of the attempt engine and doubles as the
// single-question read path: a user who has not started the season cannot
// view its questions.
func (s *QuestionService) FindOne(questionID, userID uint) (*QuestionWithProgress, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return nil, apperrors.NotFound("question not found")
	}

	var progress models.SeasonProgress
	err := s.db.Where("user_id = ? AND season_id = ?", userID, question.SeasonID).First(&progress).Error
	if err != nil {
		return nil, apperrors.Forbidden("you must start the season first")
	}

	return &QuestionWithProgress{Question: question, Progress: progress}, nil
}

// Update never moves a question between seasons.
func (s *QuestionService) Update(questionID uint, input UpdateQuestionInput) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return nil, apperrors.NotFound("question not found")
	}

	if input.Content != nil {
		question.Content = *input.Content
	}
	if input.Options != nil {
		raw, err := json.Marshal(input.Options)
		if err != nil {
			return nil, err
		}
		question.Options = datatypes.JSON(raw)
	}
	if input.Answer != nil {
		question.Answer = *input.Answer
	}
	if input.Explanation != nil {
		question.Explanation = *input.Explanation
	}
	if input.OrderIndex != nil {
		question.OrderIndex = *input.OrderIndex
	}

	if err := s.db.Save(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) Delete(questionID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, questionID).Error; err != nil {
			return apperrors.NotFound("question not found")
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.QuestionAttempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
}

// SubmitAnswer records the caller's single attempt at a question. The checks
// here are a fast path; the unique index on (user_id, question_id) is what
// actually guarantees exactly one stored attempt under concurrent submissions.
func (s *QuestionService) SubmitAnswer(questionID uint, answer string, userID uint) (*AttemptResult, error) {
	qp, err := s.FindOne(questionID, userID)
	if err != nil {
		return nil, err
	}

	if qp.Progress.IsCompleted {
		return nil, apperrors.BadRequest("season is already completed")
	}

	var existing models.QuestionAttempt
	if err := s.db.Where("user_id = ? AND question_id = ?", userID, questionID).First(&existing).Error; err == nil {
		return nil, apperrors.BadRequest("you have already attempted this question")
	}

	// Case-insensitive exact match, no trimming.
	isCorrect := strings.EqualFold(answer, qp.Question.Answer)
	points := 0
	if isCorrect {
		points = correctAnswerPoints
	}

	now := s.season.now()
	attempt := models.QuestionAttempt{
		UserID:     userID,
		QuestionID: questionID,
		Answer:     answer,
		IsCorrect:  isCorrect,
		Points:     points,
		StartTime:  now,
		EndTime:    now,
	}
	if err := s.db.Create(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.BadRequest("you have already attempted this question")
		}
		return nil, err
	}

	return &AttemptResult{
		QuestionAttempt: attempt,
		CorrectAnswer:   qp.Question.Answer,
		Explanation:     qp.Question.Explanation,
	}, nil
}

// FindBySeason lists a season's questions in solve order, each annotated with
// the caller's own attempt if one exists. Same gating as FindOne.
func (s *QuestionService) FindBySeason(seasonID, userID uint) ([]QuestionWithAttempt, error) {
	var season models.Season
	if err := s.db.First(&season, seasonID).Error; err != nil {
		return nil, apperrors.NotFound("season not found")
	}

	var progress models.SeasonProgress
	if err := s.db.Where("user_id = ? AND season_id = ?", userID, seasonID).First(&progress).Error; err != nil {
		return nil, apperrors.Forbidden("you must start the season first")
	}

	var questions []models.Question
	err := s.db.Where("season_id = ?", seasonID).
		Order("order_index ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	var attempts []models.QuestionAttempt
	err = s.db.Where("user_id = ? AND question_id IN (?)", userID,
		s.db.Model(&models.Question{}).Select("id").Where("season_id = ?", seasonID)).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[uint]*models.QuestionAttempt, len(attempts))
	for i := range attempts {
		byQuestion[attempts[i].QuestionID] = &attempts[i]
	}

	result := make([]QuestionWithAttempt, len(questions))
	for i, q := range questions {
		result[i] = QuestionWithAttempt{Question: q, Attempt: byQuestion[q.ID]}
	}
	return result, nil
}

// UserProgress returns every attempt of the user joined with its question.
func (s *QuestionService) UserProgress(userID uint) ([]models.QuestionAttempt, error) {
	var attempts []models.QuestionAttempt
	err := s.db.Where("user_id = ?", userID).
		Preload("Question").
		Order("end_time DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
