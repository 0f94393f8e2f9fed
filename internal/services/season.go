package services

import (
	"errors"
	"time"

	"season-quiz-backend/internal/apperrors"
	"season-quiz-backend/internal/models"

	"gorm.io/gorm"
)

type SeasonService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSeasonService(db *gorm.DB) *SeasonService {
	return &SeasonService{db: db, now: time.Now}
}

type SeasonInput struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
}

type UpdateSeasonInput struct {
	Title     *string
	StartDate *time.Time
	EndDate   *time.Time
}

type SeasonFilter struct {
	Date  *time.Time
	Page  int
	Limit int
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type SeasonSummary struct {
	models.Season
	QuestionCount    int64 `json:"question_count"`
	ParticipantCount int64 `json:"participant_count"`
}

type SeasonPage struct {
	Data []SeasonSummary `json:"data"`
	Meta PageMeta        `json:"meta"`
}

func (s *SeasonService) Create(input SeasonInput) (*models.Season, error) {
	season := models.Season{
		Title:     input.Title,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := s.db.Create(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

func (s *SeasonService) FindAll(filter SeasonFilter) (*SeasonPage, error) {
	page, limit, err := normalizePage(filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}

	query := s.db.Model(&models.Season{})
	if filter.Date != nil {
		query = query.Where("start_date <= ? AND end_date >= ?", *filter.Date, *filter.Date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var seasons []models.Season
	err = query.
		Order("start_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&seasons).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]SeasonSummary, len(seasons))
	for i, season := range seasons {
		var questionCount, participantCount int64
		s.db.Model(&models.Question{}).Where("season_id = ?", season.ID).Count(&questionCount)
		s.db.Model(&models.SeasonProgress{}).Where("season_id = ?", season.ID).Count(&participantCount)

		summaries[i] = SeasonSummary{
			Season:           season,
			QuestionCount:    questionCount,
			ParticipantCount: participantCount,
		}
	}

	return &SeasonPage{
		Data: summaries,
		Meta: pageMeta(total, page, limit),
	}, nil
}

func (s *SeasonService) FindOne(seasonID uint) (*models.Season, error) {
	var season models.Season
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		First(&season, seasonID).Error
	if err != nil {
		return nil, apperrors.NotFound("season not found")
	}
	return &season, nil
}

func (s *SeasonService) Update(seasonID uint, input UpdateSeasonInput) (*models.Season, error) {
	var season models.Season
	if err := s.db.First(&season, seasonID).Error; err != nil {
		return nil, apperrors.NotFound("season not found")
	}

	if input.Title != nil {
		season.Title = *input.Title
	}
	if input.StartDate != nil {
		season.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		season.EndDate = *input.EndDate
	}
	if err := s.db.Save(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

// Delete refuses to remove a season once users have participated in it;
// their progress and attempt records would be orphaned.
func (s *SeasonService) Delete(seasonID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var season models.Season
		if err := tx.First(&season, seasonID).Error; err != nil {
			return apperrors.NotFound("season not found")
		}

		var participantCount int64
		if err := tx.Model(&models.SeasonProgress{}).Where("season_id = ?", seasonID).Count(&participantCount).Error; err != nil {
			return err
		}
		if participantCount > 0 {
			return apperrors.Conflict("season has recorded participations and cannot be deleted")
		}

		if err := tx.Where("season_id = ?", seasonID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&season).Error
	})
}

// Start creates the caller's participation record for a season. Starting is
// idempotent while the season is in progress; a completed season cannot be
// restarted. The unique index on (user_id, season_id) is the authority under
// concurrent calls: a losing creator re-reads the winner's row.
func (s *SeasonService) Start(userID, seasonID uint) (*models.SeasonProgress, error) {
	var season models.Season
	if err := s.db.First(&season, seasonID).Error; err != nil {
		return nil, apperrors.NotFound("season not found")
	}

	now := s.now()
	if now.Before(season.StartDate) || now.After(season.EndDate) {
		return nil, apperrors.Forbidden("season is not currently available")
	}

	if progress, err := s.findProgress(userID, seasonID); err == nil {
		if progress.IsCompleted {
			return nil, apperrors.BadRequest("you have already completed this season")
		}
		return progress, nil
	}

	progress := models.SeasonProgress{
		UserID:    userID,
		SeasonID:  seasonID,
		StartTime: now,
	}
	if err := s.db.Create(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; the winner's row is the canonical one.
			existing, ferr := s.findProgress(userID, seasonID)
			if ferr != nil {
				return nil, ferr
			}
			if existing.IsCompleted {
				return nil, apperrors.BadRequest("you have already completed this season")
			}
			return existing, nil
		}
		return nil, err
	}
	return &progress, nil
}

// Complete marks the caller's participation finished. The transition is a
// conditional update so it can only ever happen once per participation.
func (s *SeasonService) Complete(userID, seasonID uint) (*models.SeasonProgress, error) {
	progress, err := s.findProgress(userID, seasonID)
	if err != nil {
		return nil, apperrors.NotFound("season progress not found")
	}
	if progress.IsCompleted {
		return nil, apperrors.BadRequest("season is already completed")
	}

	now := s.now()
	res := s.db.Model(&models.SeasonProgress{}).
		Where("user_id = ? AND season_id = ? AND is_completed = ?", userID, seasonID, false).
		Updates(map[string]interface{}{"is_completed": true, "end_time": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.BadRequest("season is already completed")
	}

	progress.IsCompleted = true
	progress.EndTime = &now
	return progress, nil
}

// UserProgress returns every participation of the user, joined with its
// season for display. No pagination: a user holds at most one row per season.
func (s *SeasonService) UserProgress(userID uint) ([]models.SeasonProgress, error) {
	var progress []models.SeasonProgress
	err := s.db.Where("user_id = ?", userID).
		Preload("Season").
		Order("start_time DESC").
		Find(&progress).Error
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *SeasonService) findProgress(userID, seasonID uint) (*models.SeasonProgress, error) {
	var progress models.SeasonProgress
	err := s.db.Where("user_id = ? AND season_id = ?", userID, seasonID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func normalizePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}
	if page < 1 || limit < 1 {
		return 0, 0, apperrors.Validation("page and limit must be positive")
	}
	return page, limit, nil
}

func pageMeta(total int64, page, limit int) PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
