package dedupe

import (
	"encoding/json"
	"errors"

	"record-resolver/core/logger"
	"record-resolver/core/record"
	"record-resolver/core/source"
	"record-resolver/feature/dedupe/audit"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for dedupe.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the dedupe routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/dedupe")
	group.Post("/", h.HandleDedupe)
	group.Get("/health", h.HandleHealth)
	group.Get("/runs", h.HandleRecentRuns)
	group.Get("/runs/:id", h.HandleRunChanges)
}

// HandleHealth reports liveness.
// @Summary Health check
// @Description Liveness probe for the dedupe feature.
// @Tags dedupe
// @Produce json
// @Success 200 {object} map[string]string "OK"
// @Router /dedupe/health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleDedupe resolves conflicts in the posted dataset.
// @Summary Dedupe records
// @Description Resolve id and email conflicts in the posted dataset and return the surviving records with a change log.
// @Tags dedupe
// @Accept json
// @Produce json
// @Param pretty query bool false "Indent the response JSON"
// @Param dataset body object true "Dataset, either a keyed container like {\"leads\": [...]} or a bare record array"
// @Success 200 {object} map[string]interface{} "Surviving records and change log"
// @Failure 400 {object} map[string]string "Malformed dataset"
// @Failure 413 {object} map[string]string "Record limit exceeded"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /dedupe [post]
func (h *Handler) HandleDedupe(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	doc, err := source.ParseBytes(c.Body(), "request")
	if err != nil {
		l.Warn("Rejecting malformed dataset", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.service.ResolveDocument(c.Context(), doc, []string{"http"})
	if err != nil {
		if errors.Is(err, ErrTooManyRecords) {
			l.Warn("Rejecting oversized dataset", zap.Error(err))
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Resolution failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	container := result.Document.Container
	if container == "" {
		container = "records"
	}
	records := result.Document.Records
	if records == nil {
		records = []record.Record{}
	}
	payload := fiber.Map{
		container:   records,
		"changeLog": result.Log,
	}

	c.Set("X-Run-Id", result.RunID)
	if c.QueryBool("pretty") {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			l.Error("Failed to render response", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}
	return c.JSON(payload)
}

// HandleRecentRuns lists archived resolution runs.
// @Summary List recent runs
// @Description List recently archived resolution runs, newest first. Requires the audit database.
// @Tags dedupe
// @Produce json
// @Param limit query int false "Maximum runs to return (default 20)"
// @Success 200 {object} map[string]interface{} "Archived runs"
// @Failure 503 {object} map[string]string "Audit archive not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /dedupe/runs [get]
func (h *Handler) HandleRecentRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := c.QueryInt("limit", 20)
	runs, err := h.service.RecentRuns(c.Context(), limit)
	if err != nil {
		if errors.Is(err, ErrArchiveDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"runs": runs})
}

// HandleRunChanges lists the archived decisions of one run.
// @Summary List run changes
// @Description List the archived merge decisions of one run in decision order. Unknown run ids yield an empty list.
// @Tags dedupe
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Archived changes"
// @Failure 503 {object} map[string]string "Audit archive not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /dedupe/runs/{id} [get]
func (h *Handler) HandleRunChanges(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runID := c.Params("id")
	changes, err := h.service.RunChanges(c.Context(), runID)
	if err != nil {
		if errors.Is(err, ErrArchiveDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Failed to list run changes", zap.String("run_id", runID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if changes == nil {
		changes = []audit.Change{}
	}
	return c.JSON(fiber.Map{"run_id": runID, "changes": changes})
}
