package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rod/jackpot-ingest/internal/ingest"
	"github.com/rod/jackpot-ingest/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Store is the read surface of the API. *db.Store satisfies it.
type Store interface {
	LatestJackpots(ctx context.Context, limit int) ([]models.StoredJackpot, error)
	StatsByCasino(ctx context.Context) ([]models.CasinoStats, error)
	RecentRuns(ctx context.Context, limit int) ([]models.IngestRun, error)
}

// IngestFunc runs one full ingestion and reports its result. Wired to
// (*ingest.Orchestrator).Run in production.
type IngestFunc func(ctx context.Context) (ingest.RunResult, error)

type Server struct {
	Store  Store
	Ingest IngestFunc
	Echo   *echo.Echo

	adminSecret string

	// Background job tracking. One ingest job at a time.
	jobMu      sync.Mutex
	runningJob *backgroundJob
}

type backgroundJob struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"` // running, completed, failed
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at,omitempty"`
	Result    any                `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	Cancel    context.CancelFunc `json:"-"`
}

func NewServer(store Store, ingestFn IngestFunc, adminSecret string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	if adminSecret == "" {
		adminSecret = ephemeralSecret()
	}

	s := &Server{
		Store:       store,
		Ingest:      ingestFn,
		Echo:        e,
		adminSecret: adminSecret,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/jackpots/latest", s.handleLatest)
	s.Echo.GET("/jackpots/stats", s.handleStats)
	s.Echo.GET("/runs", s.handleRuns)

	admin := s.Echo.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/ingest", s.handleTriggerIngest)
	admin.GET("/ingest/jobs/:id", s.handleJobStatus)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"ok":      true,
		"service": "multi-casino-jackpots",
	})
}

func (s *Server) handleLatest(c echo.Context) error {
	limit := clampLimit(c.QueryParam("limit"))
	rows, err := s.Store.LatestJackpots(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.Store.StatsByCasino(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleRuns(c echo.Context) error {
	limit := clampLimit(c.QueryParam("limit"))
	runs, err := s.Store.RecentRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, runs)
}

// clampLimit parses a limit query parameter, defaulting to 50 and
// capping at 200. Garbage and non-positive values fall back to the
// default rather than erroring.
func clampLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

func (s *Server) handleTriggerIngest(c echo.Context) error {
	s.jobMu.Lock()
	if s.runningJob != nil && s.runningJob.Status == "running" {
		job := s.runningJob
		s.jobMu.Unlock()
		return c.JSON(http.StatusConflict, map[string]any{
			"error":  "An ingest job is already running",
			"job_id": job.ID,
		})
	}

	// context.WithoutCancel detaches from the HTTP lifecycle; the
	// timeout bounds a wedged scrape.
	jobCtx, jobCancel := context.WithTimeout(
		context.WithoutCancel(c.Request().Context()), 30*time.Minute,
	)

	jobID := uuid.New().String()[:8]
	job := &backgroundJob{
		ID:        jobID,
		Status:    "running",
		StartedAt: time.Now(),
		Cancel:    jobCancel,
	}
	s.runningJob = job
	s.jobMu.Unlock()

	go func() {
		defer jobCancel()

		result, err := s.Ingest(jobCtx)
		s.jobMu.Lock()
		defer s.jobMu.Unlock()
		job.EndedAt = time.Now()
		if err != nil {
			job.Status = "failed"
			job.Error = err.Error()
			log.Printf("[ingest-job %s] failed: %v", jobID, err)
			return
		}
		job.Status = "completed"
		job.Result = map[string]any{
			"run_id":   result.RunID,
			"status":   result.Status,
			"inserted": result.Inserted,
			"sources":  result.Sources,
		}
		log.Printf("[ingest-job %s] completed: run=%d inserted=%d", jobID, result.RunID, result.Inserted)
	}()

	return c.JSON(http.StatusAccepted, map[string]any{
		"message": "Ingest job started",
		"job_id":  jobID,
		"poll":    fmt.Sprintf("/ingest/jobs/%s", jobID),
	})
}

func (s *Server) handleJobStatus(c echo.Context) error {
	queried := c.Param("id")
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	job := s.runningJob
	if job == nil || job.ID != queried {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}

	resp := map[string]any{
		"id":         job.ID,
		"status":     job.Status,
		"started_at": job.StartedAt,
	}
	if !job.EndedAt.IsZero() {
		resp["ended_at"] = job.EndedAt
		resp["duration"] = job.EndedAt.Sub(job.StartedAt).String()
	}
	if job.Result != nil {
		resp["result"] = job.Result
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == s.adminSecret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == s.adminSecret {
				return next(c)
			}
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func ephemeralSecret() string {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("failed to generate ADMIN_SECRET fallback: %v", err)
	}
	log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	return base64.RawURLEncoding.EncodeToString(buf)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
