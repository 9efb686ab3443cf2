package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catsafe/internal/domain"
	"catsafe/internal/export"
	"catsafe/internal/i18n"
	"catsafe/internal/repository"
	"catsafe/internal/service"
)

// IntakeHandler exposes the wizard, report, and export endpoints.
type IntakeHandler struct {
	logger     *zap.Logger
	intake     *service.IntakeService
	exporter   *export.Exporter
	translator *i18n.Translator
	defaultLoc i18n.Locale
}

func NewIntakeHandler(
	logger *zap.Logger,
	intake *service.IntakeService,
	exporter *export.Exporter,
	translator *i18n.Translator,
	defaultLocale i18n.Locale,
) *IntakeHandler {
	return &IntakeHandler{
		logger:     logger,
		intake:     intake,
		exporter:   exporter,
		translator: translator,
		defaultLoc: defaultLocale,
	}
}

// CreateSession handles POST /sessions.
func (h *IntakeHandler) CreateSession(c *gin.Context) {
	var req struct {
		Locale string `json:"locale"`
	}
	// Body is optional; an empty body means the default locale.
	_ = c.ShouldBindJSON(&req)

	locale := h.defaultLoc
	if req.Locale != "" {
		parsed, err := i18n.ParseLocale(req.Locale)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported locale"})
			return
		}
		locale = parsed
	}

	session, err := h.intake.CreateSession(c.Request.Context(), locale)
	if err != nil {
		h.logger.Error("create session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(session))
}

// GetSession handles GET /sessions/:id.
func (h *IntakeHandler) GetSession(c *gin.Context) {
	session, err := h.intake.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// SetLocale handles PUT /sessions/:id/locale.
func (h *IntakeHandler) SetLocale(c *gin.Context) {
	var req struct {
		Locale string `json:"locale" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	locale, err := i18n.ParseLocale(req.Locale)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported locale"})
		return
	}
	session, err := h.intake.SetLocale(c.Request.Context(), c.Param("id"), locale)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// UpdateBasic handles PUT /sessions/:id/basic.
func (h *IntakeHandler) UpdateBasic(c *gin.Context) {
	var req service.BasicInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	session, err := h.intake.UpdateBasic(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// UpdateAnswers handles PUT /sessions/:id/answers.
func (h *IntakeHandler) UpdateAnswers(c *gin.Context) {
	var req service.AnswersInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	session, err := h.intake.UpdateAnswers(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Advance handles POST /sessions/:id/next.
func (h *IntakeHandler) Advance(c *gin.Context) {
	session, err := h.intake.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Back handles POST /sessions/:id/back.
func (h *IntakeHandler) Back(c *gin.Context) {
	session, err := h.intake.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Reset handles POST /sessions/:id/reset.
func (h *IntakeHandler) Reset(c *gin.Context) {
	session, err := h.intake.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Submit handles POST /sessions/:id/submit. A dispatch failure does not fail
// the request: the session still reaches submitted and the response carries
// a localized warning instead.
func (h *IntakeHandler) Submit(c *gin.Context) {
	session, err := h.intake.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := sessionResponse(session)
	if session.Outcome != nil && session.Outcome.DispatchFailed {
		resp["warning"] = h.translator.T(i18n.Locale(session.Locale), "msg.submitFailed")
	}
	c.JSON(http.StatusOK, resp)
}

// Report handles GET /sessions/:id/report.
func (h *IntakeHandler) Report(c *gin.Context) {
	_, pages, err := h.intake.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// ExportReport handles GET /sessions/:id/export. Export failures leave the
// session untouched; the client may simply retry.
func (h *IntakeHandler) ExportReport(c *gin.Context) {
	session, pages, err := h.intake.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	pdf, err := h.exporter.Export(c.Request.Context(), pages)
	if err != nil {
		h.logger.Warn("pdf export failed", zap.String("session_id", session.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": h.translator.T(i18n.Locale(session.Locale), "msg.exportFailed"),
		})
		return
	}

	filename := export.Filename(session.Draft.Address, session.Outcome.SubmittedAt)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Questions handles GET /questions: the six scored questions with localized
// titles and option labels, for clients rendering the wizard.
func (h *IntakeHandler) Questions(c *gin.Context) {
	locale := h.defaultLoc
	if raw := c.Query("locale"); raw != "" {
		parsed, err := i18n.ParseLocale(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported locale"})
			return
		}
		locale = parsed
	}

	type optionView struct {
		Value int    `json:"value"`
		Label string `json:"label"`
	}
	type questionView struct {
		ID      domain.QuestionID `json:"id"`
		Title   string            `json:"title"`
		Min     int               `json:"min"`
		Options []optionView      `json:"options"`
	}

	views := make([]questionView, 0, len(domain.Questions))
	for _, q := range domain.Questions {
		view := questionView{
			ID:    q.ID,
			Title: h.translator.T(locale, q.TitleKey),
			Min:   q.Min,
		}
		for _, opt := range q.Options {
			view.Options = append(view.Options, optionView{
				Value: opt.Value,
				Label: h.translator.T(locale, opt.LabelKey),
			})
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"questions": views})
}

func (h *IntakeHandler) respondError(c *gin.Context, err error) {
	var validation *service.ValidationError
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.As(err, &validation):
		session, getErr := h.intake.Get(c.Request.Context(), c.Param("id"))
		locale := h.defaultLoc
		if getErr == nil {
			locale = i18n.Locale(session.Locale)
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  h.translator.T(locale, validation.MessageKey),
			"fields": validation.Fields,
		})
	case errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, service.ErrNotConfirmable),
		errors.Is(err, service.ErrNotSubmitted),
		errors.Is(err, service.ErrAtFirstStage),
		errors.Is(err, service.ErrAtFinalStage):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidAnswer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// sessionResponse shapes the session for clients, including the wizard
// progress indicator.
func sessionResponse(session domain.Session) gin.H {
	step := session.Stage.StepIndex()
	progress := step * 100 / domain.TotalSteps
	if progress > 100 {
		progress = 100
	}
	return gin.H{
		"session":    session,
		"step":       step,
		"totalSteps": domain.TotalSteps,
		"progress":   progress,
	}
}
