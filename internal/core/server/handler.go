package server

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/aquaflow/copilot/internal/core/config"
	"github.com/aquaflow/copilot/internal/core/db"
	"github.com/aquaflow/copilot/internal/core/tts"
	"github.com/aquaflow/copilot/internal/pipeline"
	"github.com/aquaflow/copilot/internal/rules"
	"github.com/aquaflow/copilot/internal/types"
)

const apiVersion = "1.1.0"

// Handler exposes the analysis pipeline over REST. The audit store and
// speech client are optional; endpoints depending on them answer 503
// when absent.
type Handler struct {
	orchestrator *pipeline.Orchestrator
	loader       *rules.Loader
	audit        *db.AuditStore
	speech       *tts.Client
	log          *logrus.Logger
}

func NewHandler(orchestrator *pipeline.Orchestrator, loader *rules.Loader, audit *db.AuditStore, speech *tts.Client, log *logrus.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		loader:       loader,
		audit:        audit,
		speech:       speech,
		log:          log,
	}
}

// Register mounts all API routes on the router.
func (h *Handler) Register(app fiber.Router) {
	api := app.Group("/api")
	api.Get("/health", h.Health)
	api.Get("/processes", h.ListProcesses)
	api.Post("/analyze", h.Analyze)
	api.Get("/history", h.History)
	api.Get("/history/:trace_id", h.HistoryEntry)
	api.Post("/tts", h.Synthesize)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:          "healthy",
		Version:         apiVersion,
		ModelConfigured: config.GeminiAPIKey() != "" || config.OpenAIAPIKey() != "",
	})
}

func (h *Handler) ListProcesses(c *fiber.Ctx) error {
	processes, err := h.loader.Processes()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: err.Error()})
	}
	return c.JSON(fiber.Map{"processes": processes})
}

func (h *Handler) Analyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "invalid request body: " + err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: err.Error()})
	}

	result, err := h.orchestrator.Analyze(c.UserContext(), req.Messages, req.CustomerContext)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrConfigNotFound):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Detail: err.Error()})
		case errors.Is(err, types.ErrUnimplementedSpecialist):
			return c.Status(fiber.StatusNotImplemented).JSON(ErrorResponse{Detail: err.Error()})
		case errors.Is(err, types.ErrEmptyMessages), errors.Is(err, types.ErrEmptyContext):
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: err.Error()})
		default:
			h.log.WithError(err).Error("analysis failed")
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: err.Error()})
		}
	}

	// Audit is best effort, a storage failure never fails the analysis
	if h.audit != nil {
		if err := h.audit.Record(result); err != nil {
			h.log.WithError(err).WithField("trace_id", result.TraceID).Warn("failed to record analysis")
		}
	}

	return c.JSON(AnalyzeResponse{
		TraceID:         string(result.TraceID),
		Status:          result.Status,
		Process:         result.Process,
		Confidence:      result.Confidence,
		RulesDecision:   result.RulesDecision,
		Recommendation:  result.Recommendation,
		EnrichedContext: result.EnrichedContext,
	})
}

func (h *Handler) History(c *fiber.Ctx) error {
	if h.audit == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Detail: "audit storage not configured"})
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "limit must be a positive integer"})
		}
		limit = n
	}

	entries, err := h.audit.Recent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: err.Error()})
	}
	total, err := h.audit.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: err.Error()})
	}
	return c.JSON(fiber.Map{"analyses": entries, "total": total})
}

func (h *Handler) HistoryEntry(c *fiber.Ctx) error {
	if h.audit == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Detail: "audit storage not configured"})
	}

	traceID := c.Params("trace_id")
	entry, err := h.audit.Get(types.TraceID(traceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Detail: "analysis not found: " + traceID})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: err.Error()})
	}
	return c.JSON(entry)
}

func (h *Handler) Synthesize(c *fiber.Ctx) error {
	if h.speech == nil || !h.speech.Configured() {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: "speech synthesis not configured"})
	}

	var req TTSRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "invalid request body: " + err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: err.Error()})
	}

	audio, err := h.speech.Synthesize(req.Text, req.VoiceID)
	if err != nil {
		var upstream *tts.UpstreamError
		if errors.As(err, &upstream) {
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Detail: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(audio)
}
