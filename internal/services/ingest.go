package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"season-quiz-backend/internal/apperrors"
	"season-quiz-backend/internal/ingest"
	"season-quiz-backend/internal/models"
	"season-quiz-backend/internal/ws"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ingestQueueKey  = "ingest:queue"
	ingestJobPrefix = "ingest:job:"
	ingestJobTTL    = 24 * time.Hour
)

const (
	JobStatusQueued    = "queued"
	JobStatusActive    = "active"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusNotFound  = "not-found"
)

// IngestService runs the document ingestion pipeline: uploads are queued in
// redis, a worker recognizes and parses them, and the parsed questions are
// written into a season in one transaction so they only become visible to the
// attempt engine as finished rows.
type IngestService struct {
	db         *gorm.DB
	rdb        *redis.Client
	recognizer ingest.Recognizer
	hub        *ws.Hub
}

func NewIngestService(db *gorm.DB, rdb *redis.Client, recognizer ingest.Recognizer, hub *ws.Hub) *IngestService {
	return &IngestService{db: db, rdb: rdb, recognizer: recognizer, hub: hub}
}

type ingestJob struct {
	JobID        string `json:"job_id"`
	FilePath     string `json:"file_path"`
	OriginalName string `json:"original_name"`
	SeasonID     uint   `json:"season_id,omitempty"`
}

type JobStatus struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// Enqueue registers a job and pushes it onto the work queue. When seasonID is
// non-zero the parsed questions are written into that season on completion.
func (s *IngestService) Enqueue(ctx context.Context, filePath, originalName string, seasonID uint) (string, error) {
	if seasonID != 0 {
		var season models.Season
		if err := s.db.First(&season, seasonID).Error; err != nil {
			return "", apperrors.NotFound("season not found")
		}
	}

	jobID := uuid.NewString()
	payload, err := json.Marshal(ingestJob{
		JobID:        jobID,
		FilePath:     filePath,
		OriginalName: originalName,
		SeasonID:     seasonID,
	})
	if err != nil {
		return "", err
	}

	key := ingestJobPrefix + jobID
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "status", JobStatusQueued, "progress", 0)
	pipe.Expire(ctx, key, ingestJobTTL)
	pipe.LPush(ctx, ingestQueueKey, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return jobID, nil
}

func (s *IngestService) Status(ctx context.Context, jobID string) (*JobStatus, error) {
	vals, err := s.rdb.HGetAll(ctx, ingestJobPrefix+jobID).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return &JobStatus{JobID: jobID, Status: JobStatusNotFound}, nil
	}

	progress, _ := strconv.Atoi(vals["progress"])
	return &JobStatus{
		JobID:    jobID,
		Status:   vals["status"],
		Progress: progress,
		Error:    vals["error"],
	}, nil
}

func (s *IngestService) Result(ctx context.Context, jobID string) (*ingest.ParsedExam, error) {
	vals, err := s.rdb.HGetAll(ctx, ingestJobPrefix+jobID).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, apperrors.NotFound("job not found")
	}
	if vals["status"] == JobStatusFailed {
		return nil, apperrors.BadRequest("processing failed: " + vals["error"])
	}
	if vals["status"] != JobStatusCompleted {
		return nil, apperrors.BadRequest("processing not completed")
	}

	var exam ingest.ParsedExam
	if err := json.Unmarshal([]byte(vals["result"]), &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

// Run consumes jobs until the context is cancelled.
func (s *IngestService) Run(ctx context.Context) {
	log.Println("ingest: worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("ingest: worker stopped")
			return
		default:
		}

		err := s.ProcessNext(ctx)
		if err != nil && !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			log.Printf("ingest: %v", err)
		}
	}
}

// ProcessNext pops and processes one job. Returns redis.Nil when the queue
// stayed empty for the poll interval.
func (s *IngestService) ProcessNext(ctx context.Context) error {
	res, err := s.rdb.BRPop(ctx, time.Second, ingestQueueKey).Result()
	if err != nil {
		return err
	}

	var job ingestJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return err
	}
	s.process(ctx, job)
	return nil
}

func (s *IngestService) process(ctx context.Context, job ingestJob) {
	defer os.Remove(job.FilePath)

	s.setProgress(ctx, job.JobID, JobStatusActive, 10)

	text, err := s.recognizer.Recognize(ctx, job.FilePath)
	if err != nil {
		s.fail(ctx, job.JobID, err)
		return
	}
	s.setProgress(ctx, job.JobID, JobStatusActive, 60)

	exam := ingest.Parse(text)
	if exam.Title == "" {
		exam.Title = job.OriginalName
	}
	s.setProgress(ctx, job.JobID, JobStatusActive, 80)

	if job.SeasonID != 0 {
		if err := s.storeQuestions(job.SeasonID, exam); err != nil {
			s.fail(ctx, job.JobID, err)
			return
		}
	}

	result, err := json.Marshal(exam)
	if err != nil {
		s.fail(ctx, job.JobID, err)
		return
	}

	key := ingestJobPrefix + job.JobID
	if err := s.rdb.HSet(ctx, key, "status", JobStatusCompleted, "progress", 100, "result", result).Err(); err != nil {
		log.Printf("ingest: failed to store result for job %s: %v", job.JobID, err)
		return
	}
	s.broadcast(job.JobID, JobStatusCompleted, 100, "")
	log.Printf("ingest: job %s completed (%d questions)", job.JobID, len(exam.Questions))
}

// storeQuestions appends the parsed questions after the season's current
// highest order index, inside one transaction.
func (s *IngestService) storeQuestions(seasonID uint, exam *ingest.ParsedExam) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var season models.Season
		if err := tx.First(&season, seasonID).Error; err != nil {
			return apperrors.NotFound("season not found")
		}

		var maxIndex int
		err := tx.Model(&models.Question{}).
			Where("season_id = ?", seasonID).
			Select("COALESCE(MAX(order_index), 0)").
			Scan(&maxIndex).Error
		if err != nil {
			return err
		}

		for i, parsed := range exam.Questions {
			question := models.Question{
				SeasonID:    seasonID,
				Content:     parsed.Text,
				Answer:      parsed.CorrectAnswer,
				Explanation: parsed.Comment,
				OrderIndex:  maxIndex + i + 1,
			}
			if len(parsed.Options) > 0 {
				raw, err := json.Marshal(parsed.Options)
				if err != nil {
					return err
				}
				question.Options = datatypes.JSON(raw)
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *IngestService) setProgress(ctx context.Context, jobID, status string, progress int) {
	key := ingestJobPrefix + jobID
	if err := s.rdb.HSet(ctx, key, "status", status, "progress", progress).Err(); err != nil {
		log.Printf("ingest: failed to update job %s: %v", jobID, err)
	}
	s.broadcast(jobID, status, progress, "")
}

func (s *IngestService) fail(ctx context.Context, jobID string, cause error) {
	key := ingestJobPrefix + jobID
	if err := s.rdb.HSet(ctx, key, "status", JobStatusFailed, "error", cause.Error()).Err(); err != nil {
		log.Printf("ingest: failed to mark job %s failed: %v", jobID, err)
	}
	s.broadcast(jobID, JobStatusFailed, 0, cause.Error())
	log.Printf("ingest: job %s failed: %v", jobID, cause)
}

func (s *IngestService) broadcast(jobID, status string, progress int, errMsg string) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(jobID, ws.WSMessage{
		Type: "job_status",
		Data: JobStatus{JobID: jobID, Status: status, Progress: progress, Error: errMsg},
	})
}
