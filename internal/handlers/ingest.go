package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"season-quiz-backend/internal/services"
	"season-quiz-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type IngestHandler struct {
	ingestService *services.IngestService
	hub           *ws.Hub
	uploadDir     string
}

func NewIngestHandler(ingestService *services.IngestService, hub *ws.Hub, uploadDir string) *IngestHandler {
	return &IngestHandler{ingestService: ingestService, hub: hub, uploadDir: uploadDir}
}

type UploadResponse struct {
	JobID string `json:"job_id"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Upload godoc
// @Summary      Upload a PDF for question extraction
// @Description  Queues the document for background processing. With season_id set, parsed questions are appended to that season.
// @Tags         pdf-processor
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "PDF document"
// @Param        season_id formData int false "Season to append questions to"
// @Success      201 {object} UploadResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/pdf-processor/upload [post]
func (h *IngestHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file uploaded"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "application/pdf" && !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file type. only PDF files are allowed"})
		return
	}

	var seasonID uint
	if raw := c.PostForm("season_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid season_id"})
			return
		}
		seasonID = uint(parsed)
	}

	dst := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Printf("upload: save error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to store upload"})
		return
	}

	jobID, err := h.ingestService.Enqueue(c.Request.Context(), dst, file.Filename, seasonID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{JobID: jobID})
}

// Status godoc
// @Summary      Poll the status of a processing job
// @Tags         pdf-processor
// @Produce      json
// @Security     BearerAuth
// @Param        jobId path string true "Job ID"
// @Success      200 {object} services.JobStatus
// @Router       /api/v1/pdf-processor/status/{jobId} [get]
func (h *IngestHandler) Status(c *gin.Context) {
	status, err := h.ingestService.Status(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Download godoc
// @Summary      Download the parsed result of a completed job
// @Tags         pdf-processor
// @Produce      json
// @Security     BearerAuth
// @Param        jobId path string true "Job ID"
// @Success      200 {object} ingest.ParsedExam
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/pdf-processor/download/{jobId} [get]
func (h *IngestHandler) Download(c *gin.Context) {
	exam, err := h.ingestService.Result(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// HandleJobWebSocket godoc
// @Summary      WebSocket stream of job status updates
// @Tags         pdf-processor
// @Param        jobId path string true "Job ID"
// @Router       /ws/jobs/{jobId} [get]
func (h *IngestHandler) HandleJobWebSocket(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid job id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddConnection(jobID, conn)
	defer h.hub.RemoveConnection(jobID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
