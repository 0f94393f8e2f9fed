package handlers

import (
	"log"
	"net/http"

	"season-quiz-backend/internal/apperrors"
	"season-quiz-backend/internal/models"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Season = models.Season
type Question = models.Question
type SeasonProgress = models.SeasonProgress
type QuestionAttempt = models.QuestionAttempt

func respondError(c *gin.Context, err error) {
	msg := err.Error()
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msg})
	case apperrors.KindForbidden:
		c.JSON(http.StatusForbidden, ErrorResponse{Error: msg})
	case apperrors.KindBadRequest, apperrors.KindValidation:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
	case apperrors.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: msg})
	case apperrors.KindConflict:
		c.JSON(http.StatusConflict, ErrorResponse{Error: msg})
	default:
		log.Printf("handler: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
