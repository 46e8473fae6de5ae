package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/randomtoy/vibecheck/internal/domain"
	"github.com/randomtoy/vibecheck/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	return &pageRenderer{tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html"))}
}

func (r *pageRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// eventForm is what the page posts back: the state it was rendered from,
// the event, and the topic field.
type eventForm struct {
	State string `form:"state"`
	Event string `form:"event"`
	Topic string `form:"topic"`
}

// pageView is everything index.html needs; it is built by viewFor and
// nothing else.
type pageView struct {
	State      domain.SessionState
	StateJSON  string
	Phase      domain.Phase
	CanSpin    bool
	Spinning   bool
	ShowResult bool
	Wheel      template.HTML
	Result     template.HTML
	WheelID    string
	SettleMS   int64
	Notice     string
}

// viewFor renders one frame for state.
func viewFor(state domain.SessionState, styles []domain.Style, timing Timing) (pageView, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return pageView{}, err
	}

	var wheel []byte
	switch state.Phase() {
	case domain.PhaseSpinning:
		wheel = render.Wheel(styles, render.WithAnimation(state.TargetRotation, timing.SpinDuration))
	case domain.PhaseResultShown:
		wheel = render.Wheel(styles, render.WithRotation(state.VisualRotation))
	default:
		wheel = render.Wheel(styles)
	}

	v := pageView{
		State:      state,
		StateJSON:  string(raw),
		Phase:      state.Phase(),
		CanSpin:    state.CanSpin(),
		Spinning:   state.Phase() == domain.PhaseSpinning,
		ShowResult: state.Phase() == domain.PhaseResultShown,
		Wheel:      template.HTML(wheel),
		WheelID:    render.DefaultGroupID,
		SettleMS:   timing.SpinSettle.Milliseconds(),
	}

	if v.ShowResult {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(state.GeneratedText), &buf); err != nil {
			return pageView{}, err
		}
		// goldmark drops raw HTML unless WithUnsafe is set.
		v.Result = template.HTML(buf.String())
	}

	return v, nil
}

// Index starts a fresh session; nothing survives a reload.
func (h *Handler) Index(c echo.Context) error {
	return h.renderPage(c, http.StatusOK, domain.NewSession(), "")
}

// PostEvent applies one page event to the state the page was rendered from
// and renders the next frame.
func (h *Handler) PostEvent(c echo.Context) error {
	var f eventForm
	if err := c.Bind(&f); err != nil {
		return c.String(http.StatusBadRequest, "invalid form")
	}

	state := domain.NewSession()
	if f.State != "" {
		if err := json.Unmarshal([]byte(f.State), &state); err != nil {
			return c.String(http.StatusBadRequest, "invalid session state")
		}
	}

	var (
		next domain.SessionState
		err  error
	)
	switch f.Event {
	case "spin":
		next, err = h.spin(c, state, f.Topic)
	case "complete":
		next, err = domain.Reduce(state, domain.AnimationCompleted{})
	case "reset":
		next, err = domain.Reduce(state, domain.Reset{})
	default:
		return c.String(http.StatusBadRequest, "unknown event")
	}

	switch {
	case errors.Is(err, domain.ErrEmptyTopic):
		return h.renderPage(c, http.StatusBadRequest, next, "Enter a topic before spinning.")
	case errors.Is(err, domain.ErrTopicTooLong):
		return h.renderPage(c, http.StatusBadRequest, next, "Topics are limited to 500 characters.")
	case errors.Is(err, domain.ErrInvalidTransition):
		return h.renderPage(c, http.StatusConflict, next, "That action is not available right now.")
	case err != nil:
		return mapError(c, err)
	}

	return h.renderPage(c, http.StatusOK, next, "")
}

// spin runs the Spinning entry actions: pick the style, compute the
// rotation, and block on generation before the animation is started.
func (h *Handler) spin(c echo.Context, state domain.SessionState, topic string) (domain.SessionState, error) {
	if err := checkTopicLength(strings.TrimSpace(topic)); err != nil {
		return state, err
	}
	next, err := domain.Reduce(state, domain.TopicEntered{Topic: topic})
	if err != nil {
		return state, err
	}
	if next.Phase() == domain.PhaseIdle {
		return next, domain.ErrEmptyTopic
	}

	res, err := h.svc.SpinAndExplain(c.Request().Context(), next.Topic)
	if err != nil {
		slog.ErrorContext(c.Request().Context(), "spin failed", "request_id", requestID(c), "error", err)
		return domain.Reduce(next, domain.SpinFailed{Err: userMessage(err)})
	}

	return domain.Reduce(next, domain.SpinStarted{
		Outcome: res.Outcome,
		Text:    res.Explanation.Text,
		Model:   res.Explanation.Model,
	})
}

func (h *Handler) renderPage(c echo.Context, status int, state domain.SessionState, notice string) error {
	catalog, err := h.svc.Styles(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}

	v, err := viewFor(state, catalog.Styles, h.timing)
	if err != nil {
		return mapError(c, err)
	}
	v.Notice = notice

	return c.Render(status, "index.html", v)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "The API key is not configured on the server."
	case errors.Is(err, domain.ErrInvalidCredential):
		return "The API key was rejected by the model provider."
	case errors.Is(err, domain.ErrUpstreamLLM):
		return "The explanation service failed. Spin again to retry."
	default:
		return "Something went wrong: " + strings.TrimSpace(err.Error())
	}
}
