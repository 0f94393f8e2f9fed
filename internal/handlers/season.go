package handlers

import (
	"net/http"
	"strconv"
	"time"

	"season-quiz-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SeasonHandler struct {
	seasonService *services.SeasonService
}

func NewSeasonHandler(seasonService *services.SeasonService) *SeasonHandler {
	return &SeasonHandler{seasonService: seasonService}
}

type CreateSeasonRequest struct {
	Title     string `json:"title" binding:"required" example:"Winter Season"`
	StartDate string `json:"start_date" binding:"required" example:"2025-01-01"`
	EndDate   string `json:"end_date" binding:"required" example:"2025-01-31"`
}

type UpdateSeasonRequest struct {
	Title     *string `json:"title"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// CreateSeason godoc
// @Summary      Create a season
// @Tags         seasons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateSeasonRequest true "Season data"
// @Success      201 {object} Season
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/seasons [post]
func (h *SeasonHandler) CreateSeason(c *gin.Context) {
	var req CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date"})
		return
	}
	endDate, err := parseEndDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date"})
		return
	}

	season, err := h.seasonService.Create(services.SeasonInput{
		Title:     req.Title,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, season)
}

// ListSeasons godoc
// @Summary      List seasons with pagination
// @Tags         seasons
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page (1-based)"
// @Param        limit query int false "Page size"
// @Param        date query string false "Only seasons whose window contains this date"
// @Success      200 {object} services.SeasonPage
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/seasons [get]
func (h *SeasonHandler) ListSeasons(c *gin.Context) {
	filter := services.SeasonFilter{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
			return
		}
		filter.Date = &date
	}

	page, err := h.seasonService.FindAll(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetSeason godoc
// @Summary      Get a season with its questions
// @Tags         seasons
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Season ID"
// @Success      200 {object} Season
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/seasons/{id} [get]
func (h *SeasonHandler) GetSeason(c *gin.Context) {
	seasonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid season id"})
		return
	}

	season, err := h.seasonService.FindOne(uint(seasonID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, season)
}

// UpdateSeason godoc
// @Summary      Update a season
// @Tags         seasons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Season ID"
// @Param        request body UpdateSeasonRequest true "Fields to update"
// @Success      200 {object} Season
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/seasons/{id} [patch]
func (h *SeasonHandler) UpdateSeason(c *gin.Context) {
	seasonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid season id"})
		return
	}

	var req UpdateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	input := services.UpdateSeasonInput{Title: req.Title}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date"})
			return
		}
		input.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseEndDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date"})
			return
		}
		input.EndDate = &endDate
	}

	season, err := h.seasonService.Update(uint(seasonID), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, season)
}

// DeleteSeason godoc
// @Summary      Delete a season without participations
// @Tags         seasons
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Season ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/seasons/{id} [delete]
func (h *SeasonHandler) DeleteSeason(c *gin.Context) {
	seasonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid season id"})
		return
	}

	if err := h.seasonService.Delete(uint(seasonID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "season deleted"})
}

// StartSeason godoc
// @Summary      Start participating in a season
// @Tags         seasons
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Season ID"
// @Success      201 {object} SeasonProgress
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/seasons/{id}/start [post]
func (h *SeasonHandler) StartSeason(c *gin.Context) {
	seasonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid season id"})
		return
	}

	userID := c.GetUint("user_id")
	progress, err := h.seasonService.Start(userID, uint(seasonID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, progress)
}

// CompleteSeason godoc
// @Summary      Complete participation in a season
// @Tags         seasons
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Season ID"
// @Success      200 {object} SeasonProgress
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/seasons/{id}/complete [post]
func (h *SeasonHandler) CompleteSeason(c *gin.Context) {
	seasonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid season id"})
		return
	}

	userID := c.GetUint("user_id")
	progress, err := h.seasonService.Complete(userID, uint(seasonID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetUserProgress godoc
// @Summary      Get the current user's progress across all seasons
// @Tags         seasons
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} SeasonProgress
// @Router       /api/v1/seasons/user/progress [get]
func (h *SeasonHandler) GetUserProgress(c *gin.Context) {
	userID := c.GetUint("user_id")
	progress, err := h.seasonService.UserProgress(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// parseEndDate widens a date-only value to the last second of that day, so a
// season whose window ends on a calendar date stays open through the whole day.
func parseEndDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Second), nil
}

func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return val
}
