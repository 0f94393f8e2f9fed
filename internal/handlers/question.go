package handlers

import (
	"net/http"
	"strconv"

	"season-quiz-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionService *services.QuestionService
}

func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

type CreateQuestionRequest struct {
	SeasonID    uint     `json:"season_id" binding:"required"`
	Content     string   `json:"content" binding:"required"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer" binding:"required"`
	Explanation string   `json:"explanation"`
	OrderIndex  int      `json:"order_index"`
}

type UpdateQuestionRequest struct {
	Content     *string  `json:"content"`
	Options     []string `json:"options"`
	Answer      *string  `json:"answer"`
	Explanation *string  `json:"explanation"`
	OrderIndex  *int     `json:"order_index"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// CreateQuestion godoc
// @Summary      Create a question in a season
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateQuestionRequest true "Question data"
// @Success      201 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.questionService.Create(services.QuestionInput{
		SeasonID:    req.SeasonID,
		Content:     req.Content,
		Options:     req.Options,
		Answer:      req.Answer,
		Explanation: req.Explanation,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ListQuestions godoc
// @Summary      List questions with pagination
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page (1-based)"
// @Param        limit query int false "Page size"
// @Param        season_id query int false "Filter by season"
// @Success      200 {object} services.QuestionPage
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filter := services.QuestionFilter{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}
	if raw := c.Query("season_id"); raw != "" {
		seasonID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid season_id"})
			return
		}
		filter.SeasonID = uint(seasonID)
	}

	page, err := h.questionService.FindAll(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetQuestion godoc
// @Summary      Get a single question
// @Description  Only available after starting the question's season.
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} Question
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	userID := c.GetUint("user_id")
	qp, err := h.questionService.FindOne(uint(questionID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, qp.Question)
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Description  A question can never be moved to a different season.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body UpdateQuestionRequest true "Fields to update"
// @Success      200 {object} Question
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.questionService.Update(uint(questionID), services.UpdateQuestionInput{
		Content:     req.Content,
		Options:     req.Options,
		Answer:      req.Answer,
		Explanation: req.Explanation,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary      Delete a question and its attempts
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	if err := h.questionService.Delete(uint(questionID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}

// SubmitAnswer godoc
// @Summary      Submit the single allowed answer to a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body SubmitAnswerRequest true "Submitted answer"
// @Success      201 {object} services.AttemptResult
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id}/attempt [post]
func (h *QuestionHandler) SubmitAnswer(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	result, err := h.questionService.SubmitAnswer(uint(questionID), req.Answer, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetSeasonQuestions godoc
// @Summary      List a season's questions with the caller's attempts
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        seasonId path int true "Season ID"
// @Success      200 {array} services.QuestionWithAttempt
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/season/{seasonId} [get]
func (h *QuestionHandler) GetSeasonQuestions(c *gin.Context) {
	seasonID, err := strconv.ParseUint(c.Param("seasonId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid season id"})
		return
	}

	userID := c.GetUint("user_id")
	questions, err := h.questionService.FindBySeason(uint(seasonID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetUserProgress godoc
// @Summary      Get the current user's attempts across all questions
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} QuestionAttempt
// @Router       /api/v1/questions/user/progress [get]
func (h *QuestionHandler) GetUserProgress(c *gin.Context) {
	userID := c.GetUint("user_id")
	attempts, err := h.questionService.UserProgress(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}
