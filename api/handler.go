package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solar-estimate/api/envelope"
	"solar-estimate/core/engine"
	"solar-estimate/core/output"
	"solar-estimate/core/survey"
	"solar-estimate/internal/errors"
)

// Handler serves estimate requests. It wraps the engine and contains no
// pricing logic of its own.
type Handler struct {
	engine   *engine.Engine
	registry *output.Registry
	company  output.Company
	logger   *zap.Logger
}

// NewHandler creates a handler around eng
func NewHandler(eng *engine.Engine, company output.Company, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine:   eng,
		registry: output.NewRegistry(false),
		company:  company,
		logger:   logger,
	}
}

// CreateEstimate handles POST /estimates
func (h *Handler) CreateEstimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		envelope.BadRequest(c, "invalid request body", err.Error())
		return
	}
	if req.Survey == nil {
		envelope.BadRequest(c, "survey is required", nil)
		return
	}

	result := survey.Validate(req.Survey)
	if req.Strict && !result.Valid() {
		envelope.Error(c, http.StatusUnprocessableEntity, string(errors.TypeValidation),
			"survey failed validation", result)
		return
	}

	start := time.Now()
	est, err := h.engine.Generate(req.Survey, req.ClientName)
	if err != nil {
		h.logger.Error("generate failed",
			zap.Error(err),
			zap.String("correlation_id", envelope.CorrelationID(c)))
		envelope.FromError(c, err)
		return
	}

	h.logger.Info("estimate created",
		zap.String("estimate_id", est.Cover.EstimateID),
		zap.Int("validation_errors", len(result.Errors)),
		zap.Duration("duration", time.Since(start)),
		zap.String("correlation_id", envelope.CorrelationID(c)))

	envelope.Success(c, http.StatusCreated, EstimateResponse{
		Estimate:   est,
		Validation: result,
		InputHash:  envelope.Hash(&req),
	})
}

// Recalculate handles POST /estimates/recalculate
func (h *Handler) Recalculate(c *gin.Context) {
	var req RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		envelope.BadRequest(c, "invalid request body", err.Error())
		return
	}
	if req.Estimate == nil {
		envelope.BadRequest(c, "estimate is required", nil)
		return
	}

	if req.TotalBeforeTax != nil && *req.TotalBeforeTax < 0 {
		envelope.BadRequest(c, "total_before_tax must not be negative", nil)
		return
	}

	inputHash := envelope.Hash(&req)
	if err := h.engine.ApplyEdits(req.Estimate, req.Edits); err != nil {
		envelope.FromError(c, err)
		return
	}
	if req.TotalBeforeTax != nil {
		if err := h.engine.AdjustTotalBeforeTax(req.Estimate, *req.TotalBeforeTax); err != nil {
			envelope.FromError(c, err)
			return
		}
	}

	envelope.Success(c, http.StatusOK, EstimateResponse{
		Estimate:  req.Estimate,
		InputHash: inputHash,
	})
}

// ValidateSurvey handles POST /surveys/validate
func (h *Handler) ValidateSurvey(c *gin.Context) {
	var s survey.Survey
	if err := c.ShouldBindJSON(&s); err != nil {
		envelope.BadRequest(c, "invalid survey", err.Error())
		return
	}
	envelope.Success(c, http.StatusOK, survey.Validate(&s))
}

// Rules handles GET /rules
func (h *Handler) Rules(c *gin.Context) {
	envelope.Success(c, http.StatusOK, newRulesResponse(h.engine.Rules()))
}

// Export handles POST /estimates/export?format=xlsx. The rendered document is
// the response body; it is not wrapped in an envelope.
func (h *Handler) Export(c *gin.Context) {
	format, err := output.ParseFormat(c.DefaultQuery("format", string(output.FormatXLSX)))
	if err != nil {
		envelope.BadRequest(c, err.Error(), nil)
		return
	}

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		envelope.BadRequest(c, "invalid request body", err.Error())
		return
	}
	if req.Estimate == nil {
		envelope.BadRequest(c, "estimate is required", nil)
		return
	}
	if err := h.engine.Recalculate(req.Estimate); err != nil {
		envelope.FromError(c, err)
		return
	}

	doc := output.NewDocument(req.Estimate, h.company)
	if req.ShowReasoning != nil {
		doc.ShowReasoning = *req.ShowReasoning
	}

	var buf bytes.Buffer
	if err := h.registry.Render(&buf, format, doc); err != nil {
		h.logger.Error("export failed",
			zap.Error(err),
			zap.String("format", string(format)),
			zap.String("correlation_id", envelope.CorrelationID(c)))
		envelope.FromError(c, errors.Internal("render "+string(format), err))
		return
	}

	filename := req.Estimate.Cover.EstimateID + format.Extension()
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
