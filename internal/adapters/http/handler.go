package http

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/vibecheck/internal/app"
	"github.com/randomtoy/vibecheck/internal/domain"
	"github.com/randomtoy/vibecheck/internal/render"
)

// maxTopicLen is counted in characters, not bytes.
const maxTopicLen = 500

// Timing holds the wheel animation contract shared by the SVG and the page
// script.
type Timing struct {
	// SpinDuration is how long the wheel animation runs.
	SpinDuration time.Duration
	// SpinSettle is when the page posts the completion event if the browser
	// never reports the end of the animation.
	SpinSettle time.Duration
}

type Handler struct {
	svc    *app.ExplainService
	timing Timing
}

func NewHandler(svc *app.ExplainService, timing Timing) *Handler {
	return &Handler{svc: svc, timing: timing}
}

func (h *Handler) Register(e *echo.Echo) {
	e.Renderer = newPageRenderer()

	e.GET("/", h.Index)
	e.POST("/events", h.PostEvent)
	e.GET("/healthz", h.Healthz)
	e.GET("/v1/styles", h.ListStyles)
	e.POST("/v1/spin", h.Spin)
	e.GET("/v1/wheel.svg", h.WheelSVG)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListStyles(c echo.Context) error {
	catalog, err := h.svc.Styles(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}

	styles := make([]StyleResp, catalog.Len())
	for i, s := range catalog.Styles {
		styles[i] = toStyleResp(i, s)
	}
	p := h.svc.Profile()

	return c.JSON(http.StatusOK, StylesResponse{
		Styles: styles,
		Profile: ProfileResp{
			Name:      string(p.Name),
			Model:     p.Model,
			MaxTokens: p.MaxTokens,
		},
	})
}

func (h *Handler) Spin(c echo.Context) error {
	var req SpinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return mapError(c, domain.ErrEmptyTopic)
	}
	if err := checkTopicLength(topic); err != nil {
		return mapError(c, err)
	}

	res, err := h.svc.SpinAndExplain(c.Request().Context(), topic)
	if err != nil {
		return mapError(c, err)
	}

	return c.JSON(http.StatusOK, toSpinResponse(res, requestID(c)))
}

// WheelSVG renders the wheel on its own: at rest when only rotation is
// given, spinning towards target when animate=true.
func (h *Handler) WheelSVG(c echo.Context) error {
	catalog, err := h.svc.Styles(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}

	rotation, err := floatParam(c, "rotation")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	target, err := floatParam(c, "target")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	opts := []render.WheelOption{render.WithRotation(rotation)}
	if animate, _ := strconv.ParseBool(c.QueryParam("animate")); animate {
		opts = append(opts, render.WithAnimation(target, h.timing.SpinDuration))
	}

	return c.Blob(http.StatusOK, "image/svg+xml", render.Wheel(catalog.Styles, opts...))
}

func floatParam(c echo.Context, name string) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New(name + " must be a finite number")
	}
	return v, nil
}

func checkTopicLength(topic string) error {
	if utf8.RuneCountInString(topic) > maxTopicLen {
		return fmt.Errorf("%w: at most %d characters", domain.ErrTopicTooLong, maxTopicLen)
	}
	return nil
}

func toSpinResponse(r app.SpinResult, requestID string) SpinResponse {
	return SpinResponse{
		Topic:           r.Topic,
		Index:           r.Outcome.Index,
		Style:           toStyleResp(r.Outcome.Index, r.Outcome.Style),
		RotationDegrees: r.Outcome.RotationDegrees,
		Text:            r.Explanation.Text,
		Meta: MetaResp{
			Model:     r.Explanation.Model,
			RequestID: requestID,
			LatencyMS: r.Explanation.LatencyMS,
		},
	}
}

func mapError(c echo.Context, err error) error {
	reqID := requestID(c)

	switch {
	case errors.Is(err, domain.ErrEmptyTopic), errors.Is(err, domain.ErrTopicTooLong):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrMissingCredential):
		slog.Error("missing credential", "request_id", reqID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "API credential is not configured"})
	case errors.Is(err, domain.ErrUpstreamLLM):
		slog.Error("upstream LLM failure", "request_id", reqID, "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream LLM failure"})
	default:
		slog.Error("internal error", "request_id", reqID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
