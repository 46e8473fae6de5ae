package http_test

import (
	"context"
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	httpadapter "github.com/randomtoy/vibecheck/internal/adapters/http"
	"github.com/randomtoy/vibecheck/internal/adapters/styles"
	"github.com/randomtoy/vibecheck/internal/app"
	"github.com/randomtoy/vibecheck/internal/config"
	"github.com/randomtoy/vibecheck/internal/domain"
	"github.com/randomtoy/vibecheck/internal/ports"
)

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, in ports.GenerateInput) (ports.GenerateOutput, error) {
	g.calls++
	if g.err != nil {
		return ports.GenerateOutput{}, g.err
	}
	return ports.GenerateOutput{Text: g.text, Model: in.Model}, nil
}

type fixedRNG struct{ val int }

func (r fixedRNG) Intn(n int) int { return r.val % n }

func newServer(gen ports.Generator) *echo.Echo {
	svc := app.NewExplainService(
		styles.NewEmbeddedStore(),
		gen,
		fixedRNG{val: 3},
		config.DefaultProfiles()[config.ProfileInteractive],
	)

	e := echo.New()
	e.Use(httpadapter.RequestIDMiddleware())
	httpadapter.NewHandler(svc, httpadapter.Timing{
		SpinDuration: 3 * time.Second,
		SpinSettle:   3200 * time.Millisecond,
	}).Register(e)
	return e
}

func do(e *echo.Echo, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postEvent(e *echo.Echo, state, event, topic string) *httptest.ResponseRecorder {
	form := url.Values{"state": {state}, "event": {event}, "topic": {topic}}
	return do(e, http.MethodPost, "/events", echo.MIMEApplicationForm, form.Encode())
}

var stateField = regexp.MustCompile(`name="state" value="([^"]*)"`)

// pageState extracts the session state the page will post back.
func pageState(t *testing.T, body string) (string, domain.SessionState) {
	t.Helper()
	m := stateField.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no state field in page:\n%s", body)
	}
	raw := html.UnescapeString(m[1])
	var s domain.SessionState
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("state field is not JSON: %v (%s)", err, raw)
	}
	return raw, s
}

func TestIndex_FreshSession(t *testing.T) {
	e := newServer(&stubGenerator{})
	rec := do(e, http.MethodGet, "/", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	_, s := pageState(t, body)
	if s != domain.NewSession() {
		t.Errorf("expected initial state, got %+v", s)
	}
	if !strings.Contains(body, `id="spin-button" class="primary" disabled`) {
		t.Error("spin button must start disabled")
	}
	if strings.Contains(body, "@keyframes") {
		t.Error("idle wheel must not animate")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing request id header")
	}
}

func TestEvents_SpinCompleteReset(t *testing.T) {
	gen := &stubGenerator{text: "**Gravity** so strong"}
	e := newServer(gen)

	// spin
	rec := postEvent(e, "", "spin", "black holes")
	if rec.Code != http.StatusOK {
		t.Fatalf("spin status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	raw, s := pageState(t, body)
	if s.Phase() != domain.PhaseSpinning {
		t.Fatalf("expected spinning, got %s", s.Phase())
	}
	if gen.calls != 1 {
		t.Errorf("text must be fetched before the animation, calls=%d", gen.calls)
	}
	if s.SelectedStyle.Label != "as a haiku" || s.GeneratedText != "**Gravity** so strong" {
		t.Errorf("unexpected state: %+v", s)
	}
	if !strings.Contains(body, "to { transform: rotate(2700deg); }") {
		t.Error("spinning page must animate to the target rotation")
	}
	if !strings.Contains(body, `id="complete-form"`) {
		t.Error("spinning page must carry the completion form")
	}
	if strings.Contains(body, "Your Explanation") {
		t.Error("text must be held until the animation completes")
	}
	if strings.Contains(body, `class="primary" >`) {
		t.Error("spin button must be disabled while spinning")
	}

	// a second spin while spinning is rejected
	rec = postEvent(e, raw, "spin", "other")
	if rec.Code != http.StatusConflict {
		t.Errorf("concurrent spin status = %d", rec.Code)
	}
	if gen.calls != 1 {
		t.Errorf("rejected spin must not call the generator, calls=%d", gen.calls)
	}

	// animation completes
	rec = postEvent(e, raw, "complete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d", rec.Code)
	}
	body = rec.Body.String()
	raw, s = pageState(t, body)
	if s.Phase() != domain.PhaseResultShown {
		t.Fatalf("expected result_shown, got %s", s.Phase())
	}
	if !strings.Contains(body, "<strong>Gravity</strong> so strong") {
		t.Errorf("markdown not rendered:\n%s", body)
	}
	if !strings.Contains(body, `transform="rotate(2700 200 200)"`) {
		t.Error("result wheel must rest at the final rotation")
	}
	if strings.Contains(body, "@keyframes") {
		t.Error("result wheel must be static")
	}

	// reset
	rec = postEvent(e, raw, "reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	_, s = pageState(t, rec.Body.String())
	if s != domain.NewSession() {
		t.Errorf("reset must restore the initial state, got %+v", s)
	}
}

func TestEvents_EmptyTopic(t *testing.T) {
	gen := &stubGenerator{text: "x"}
	e := newServer(gen)

	rec := postEvent(e, "", "spin", "   ")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if gen.calls != 0 {
		t.Errorf("generator called for empty topic")
	}
}

func TestEvents_GenerationFailureShowsError(t *testing.T) {
	e := newServer(&stubGenerator{err: domain.ErrUpstreamLLM})

	rec := postEvent(e, "", "spin", "tides")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	_, s := pageState(t, body)
	if s.Phase() != domain.PhaseAwaitingTopic || s.Error == "" {
		t.Errorf("expected awaiting_topic with error, got %+v", s)
	}
	if !strings.Contains(body, `role="alert"`) {
		t.Error("error banner missing")
	}
}

func TestEvents_BadInput(t *testing.T) {
	e := newServer(&stubGenerator{})

	if rec := postEvent(e, "{not json", "complete", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad state status = %d", rec.Code)
	}
	if rec := postEvent(e, "", "explode", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown event status = %d", rec.Code)
	}
	if rec := postEvent(e, "", "complete", ""); rec.Code != http.StatusConflict {
		t.Errorf("complete while idle status = %d", rec.Code)
	}
}

func TestSpinAPI(t *testing.T) {
	e := newServer(&stubGenerator{text: "Event horizon hums"})

	rec := do(e, http.MethodPost, "/v1/spin", echo.MIMEApplicationJSON, `{"topic":"black holes"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp httpadapter.SpinResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Index != 3 || resp.Style.Label != "as a haiku" || resp.Style.Icon != "🌸" {
		t.Errorf("unexpected style: %+v", resp)
	}
	if resp.RotationDegrees != 2700 {
		t.Errorf("rotation = %v", resp.RotationDegrees)
	}
	if resp.Text != "Event horizon hums" {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Meta.Model != "mistral-large-latest" || resp.Meta.RequestID == "" {
		t.Errorf("unexpected meta: %+v", resp.Meta)
	}
}

func TestSpinAPI_TopicLengthCountsCharacters(t *testing.T) {
	cases := []struct {
		name   string
		topic  string
		status int
		calls  int
	}{
		{"multibyte under limit", strings.Repeat("é", 500), http.StatusOK, 1},
		{"multibyte over limit", strings.Repeat("é", 501), http.StatusBadRequest, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{text: "ok"}
			e := newServer(gen)
			body, _ := json.Marshal(httpadapter.SpinRequest{Topic: tc.topic})

			rec := do(e, http.MethodPost, "/v1/spin", echo.MIMEApplicationJSON, string(body))
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
			if gen.calls != tc.calls {
				t.Errorf("generator calls = %d, want %d", gen.calls, tc.calls)
			}
		})
	}
}

func TestEvents_TopicLengthCountsCharacters(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	e := newServer(gen)

	topic := strings.Repeat("é", 500)
	rec := postEvent(e, "", "spin", topic)
	if rec.Code != http.StatusOK {
		t.Fatalf("under limit status = %d", rec.Code)
	}
	_, s := pageState(t, rec.Body.String())
	if s.Topic != topic {
		t.Errorf("topic changed: got %d characters", len([]rune(s.Topic)))
	}

	rec = postEvent(e, "", "spin", strings.Repeat("é", 501))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("over limit status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "limited to 500 characters") {
		t.Error("over limit notice missing")
	}
	_, s = pageState(t, rec.Body.String())
	if s.Phase() != domain.PhaseIdle {
		t.Errorf("over limit topic must not start a spin, got %s", s.Phase())
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestSpinAPI_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{"empty topic", nil, `{"topic":" "}`, http.StatusBadRequest},
		{"bad json", nil, `{`, http.StatusBadRequest},
		{"upstream", domain.ErrUpstreamLLM, `{"topic":"x"}`, http.StatusBadGateway},
		{"missing key", domain.ErrMissingCredential, `{"topic":"x"}`, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newServer(&stubGenerator{err: tc.err})
			rec := do(e, http.MethodPost, "/v1/spin", echo.MIMEApplicationJSON, tc.body)
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestListStyles(t *testing.T) {
	e := newServer(&stubGenerator{})
	rec := do(e, http.MethodGet, "/v1/styles", "", "")

	var resp httpadapter.StylesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Styles) != 7 || resp.Styles[6].Label != "as a love letter" {
		t.Errorf("unexpected styles: %+v", resp.Styles)
	}
	if resp.Profile.Name != "interactive" || resp.Profile.MaxTokens != 500 {
		t.Errorf("unexpected profile: %+v", resp.Profile)
	}
}

func TestWheelSVG(t *testing.T) {
	e := newServer(&stubGenerator{})

	rec := do(e, http.MethodGet, "/v1/wheel.svg?rotation=-180", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/svg+xml" {
		t.Errorf("content type = %s", ct)
	}
	if !strings.Contains(rec.Body.String(), `transform="rotate(-180 200 200)"`) {
		t.Error("rotation not applied")
	}

	rec = do(e, http.MethodGet, "/v1/wheel.svg?animate=true&target=2700", "", "")
	if !strings.Contains(rec.Body.String(), "rotate(2700deg)") {
		t.Error("animation target not applied")
	}

	for _, q := range []string{"rotation=left", "rotation=NaN", "rotation=Inf", "target=-Inf&animate=true"} {
		if rec := do(e, http.MethodGet, "/v1/wheel.svg?"+q, "", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", q, rec.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	rec := do(newServer(&stubGenerator{}), http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
