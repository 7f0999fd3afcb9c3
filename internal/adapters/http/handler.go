package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/randomtoy/tarot-studio/internal/app"
	"github.com/randomtoy/tarot-studio/internal/domain"
	"github.com/randomtoy/tarot-studio/internal/ports"
)

// Services bundles what the handler exposes over HTTP.
type Services struct {
	Catalog  ports.Catalog
	Tarot    *app.TarotService
	Drawing  *app.DrawingService
	Storage  *app.StorageService
	Settings *app.SettingsService
}

type Handler struct {
	svc        Services
	validate   *validator.Validate
	trans      ut.Translator
	maxAgeDays int
	now        func() time.Time
}

// NewHandler builds a handler. maxAgeDays is the cleanup default when the
// request does not name one.
func NewHandler(svc Services, maxAgeDays int) (*Handler, error) {
	v, trans, err := newValidator()
	if err != nil {
		return nil, err
	}
	return &Handler{
		svc:        svc,
		validate:   v,
		trans:      trans,
		maxAgeDays: maxAgeDays,
		now:        time.Now,
	}, nil
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	v1 := e.Group("/v1")
	v1.GET("/spreads", h.ListSpreads)
	v1.GET("/spreads/:id", h.GetSpread)
	v1.GET("/cards", h.ListCards)
	v1.GET("/cards/:id", h.GetCard)

	v1.POST("/draw", h.Draw)
	v1.GET("/draw/stats", h.DrawStats)
	v1.POST("/draw/reset", h.ResetSession)
	v1.POST("/readings", h.CreateReading)

	v1.GET("/history", h.ListHistory)
	v1.POST("/history", h.SaveReading)
	v1.DELETE("/history", h.ClearHistory)
	v1.GET("/history/:id", h.GetReading)
	v1.DELETE("/history/:id", h.DeleteReading)

	v1.GET("/settings", h.GetSettings)
	v1.PUT("/settings", h.UpdateSettings)
	v1.DELETE("/settings", h.ResetSettings)

	v1.GET("/export", h.Export)
	v1.POST("/import", h.Import)
	v1.GET("/storage/usage", h.StorageUsage)
	v1.POST("/storage/cleanup", h.Cleanup)
}

func (h *Handler) Healthz(c echo.Context) error {
	if !h.svc.Storage.IsAvailable(c.Request().Context()) {
		return c.String(http.StatusServiceUnavailable, "storage unavailable")
	}
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListSpreads(c echo.Context) error {
	if c.QueryParam("recommended") == "true" {
		return c.JSON(http.StatusOK, h.svc.Catalog.RecommendedSpreads())
	}
	return c.JSON(http.StatusOK, h.svc.Catalog.Spreads())
}

func (h *Handler) GetSpread(c echo.Context) error {
	sp, err := h.svc.Catalog.Spread(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, sp)
}

// ListCards filters by ?arcana=major|minor or ?suit=<suit>.
func (h *Handler) ListCards(c echo.Context) error {
	if suit := c.QueryParam("suit"); suit != "" {
		if !isSuit(domain.Suit(suit)) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "suit must be one of wands, cups, swords, pentacles"})
		}
		return c.JSON(http.StatusOK, h.svc.Catalog.CardsBySuit(domain.Suit(suit)))
	}
	switch domain.Arcana(c.QueryParam("arcana")) {
	case "":
		return c.JSON(http.StatusOK, h.svc.Catalog.Cards())
	case domain.Major:
		return c.JSON(http.StatusOK, h.svc.Catalog.MajorArcana())
	case domain.Minor:
		return c.JSON(http.StatusOK, h.svc.Catalog.MinorArcana())
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "arcana must be major or minor"})
	}
}

func (h *Handler) GetCard(c echo.Context) error {
	card, err := h.svc.Catalog.Card(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) Draw(c echo.Context) error {
	var req DrawRequest
	if msg := h.decode(c, &req); msg != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
	}

	opts := app.DrawOptions{
		AllowDuplicates:     req.AllowDuplicates,
		ForceReversed:       req.ForceReversed,
		ReversedProbability: req.ReversedProbability,
	}
	draw := h.svc.Drawing.Draw
	if req.Redraw {
		draw = h.svc.Drawing.Redraw
	}
	res, err := draw(req.SpreadID, opts)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) DrawStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Drawing.Stats())
}

func (h *Handler) ResetSession(c echo.Context) error {
	h.svc.Drawing.ResetSession()
	return c.JSON(http.StatusOK, h.svc.Drawing.Stats())
}

func (h *Handler) CreateReading(c echo.Context) error {
	var req ReadingRequest
	if msg := h.decode(c, &req); msg != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
	}

	start := h.now()
	ctx := c.Request().Context()

	var (
		resp app.ReadSpreadResponse
		err  error
	)
	if len(req.Cards) > 0 {
		hand := make([]app.HandCard, len(req.Cards))
		for i, ref := range req.Cards {
			hand[i] = app.HandCard{ID: ref.ID, IsReversed: ref.IsReversed}
		}
		resp, err = h.svc.Tarot.InterpretHand(ctx, app.InterpretHandRequest{
			SpreadID: req.SpreadID,
			Question: req.Question,
			Cards:    hand,
		})
	} else {
		resp, err = h.svc.Tarot.ReadSpread(ctx, app.ReadSpreadRequest{
			SpreadID:            req.SpreadID,
			Question:            req.Question,
			AllowDuplicates:     req.AllowDuplicates,
			ForceReversed:       req.ForceReversed,
			ReversedProbability: req.ReversedProbability,
		})
	}
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(http.StatusCreated, ReadingResponse{
		Reading:   resp.Reading,
		SessionID: resp.SessionID,
		Saved:     resp.Saved,
		Meta: MetaResp{
			RequestID: requestID(c),
			LatencyMS: h.now().Sub(start).Milliseconds(),
		},
	})
}

func (h *Handler) ListHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Storage.LoadHistory(c.Request().Context()))
}

// SaveReading stores a reading the client kept while autosave was off.
func (h *Handler) SaveReading(c echo.Context) error {
	var r domain.Reading
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if r.ID == "" || r.Timestamp.IsZero() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "reading needs an id and a timestamp"})
	}
	if err := h.svc.Storage.AddReading(c.Request().Context(), r); err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) ClearHistory(c echo.Context) error {
	if err := h.svc.Storage.ClearHistory(c.Request().Context()); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetReading(c echo.Context) error {
	r, ok := h.svc.Storage.GetReading(c.Request().Context(), c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "reading not found"})
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteReading(c echo.Context) error {
	if err := h.svc.Storage.RemoveReading(c.Request().Context(), c.Param("id")); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Settings.Current(c.Request().Context()))
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	var patch domain.SettingsPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	s, err := h.svc.Settings.Update(c.Request().Context(), patch)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) ResetSettings(c echo.Context) error {
	s, err := h.svc.Settings.Reset(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Export(c echo.Context) error {
	bundle := h.svc.Storage.ExportAll(c.Request().Context())
	name := fmt.Sprintf("tarot-export-%s.json", bundle.ExportDate.Format(time.DateOnly))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.JSON(http.StatusOK, bundle)
}

func (h *Handler) Import(c echo.Context) error {
	data, err := app.ParseExport(c.Request().Body)
	if err != nil {
		return mapError(c, err)
	}
	res := h.svc.Settings.Import(c.Request().Context(), data)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusMultiStatus
	}
	return c.JSON(status, res)
}

func (h *Handler) StorageUsage(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Storage.StorageUsage(c.Request().Context()))
}

// Cleanup removes readings older than ?days=N, defaulting to the configured age.
func (h *Handler) Cleanup(c echo.Context) error {
	days := h.maxAgeDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "days must be a non-negative integer"})
		}
		days = parsed
	}
	removed, err := h.svc.Storage.CleanupExpired(c.Request().Context(), days)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, CleanupResponse{Removed: removed, MaxAgeDays: days})
}

// decode binds and validates a JSON body. It returns a client-facing message
// on failure and "" on success.
func (h *Handler) decode(c echo.Context, dst any) string {
	if err := c.Bind(dst); err != nil {
		return "invalid JSON body"
	}
	if err := h.validate.Struct(dst); err != nil {
		return h.validationMessage(err)
	}
	return ""
}

func mapError(c echo.Context, err error) error {
	id := requestID(c)

	switch {
	case errors.Is(err, domain.ErrUnknownSpread), errors.Is(err, domain.ErrCardNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, domain.ErrEmptyHand),
		errors.Is(err, domain.ErrCardCountMismatch):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrQuotaExceeded):
		slog.Warn("storage quota exceeded", "request_id", id, "error", err)
		return c.JSON(http.StatusInsufficientStorage, ErrorResponse{Error: "storage quota exceeded"})
	case errors.Is(err, domain.ErrStorage):
		slog.Error("storage failure", "request_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "storage failure"})
	default:
		slog.Error("internal error", "request_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func requestID(c echo.Context) string {
	id, _ := c.Get("request_id").(string)
	return id
}

func isSuit(s domain.Suit) bool {
	for _, suit := range domain.Suits {
		if s == suit {
			return true
		}
	}
	return false
}
