package http

import "github.com/randomtoy/vibecheck/internal/domain"

// SpinRequest is the JSON body of POST /v1/spin.
type SpinRequest struct {
	Topic string `json:"topic"`
}

// SpinResponse is the JSON shape returned by POST /v1/spin.
type SpinResponse struct {
	Topic           string    `json:"topic"`
	Index           int       `json:"index"`
	Style           StyleResp `json:"style"`
	RotationDegrees float64   `json:"rotation_degrees"`
	Text            string    `json:"text"`
	Meta            MetaResp  `json:"meta"`
}

type StyleResp struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// StylesResponse is the JSON shape returned by GET /v1/styles.
type StylesResponse struct {
	Styles  []StyleResp `json:"styles"`
	Profile ProfileResp `json:"profile"`
}

type ProfileResp struct {
	Name      string `json:"name"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

type MetaResp struct {
	Model     string `json:"model"`
	RequestID string `json:"request_id"`
	LatencyMS int64  `json:"latency_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toStyleResp(i int, s domain.Style) StyleResp {
	return StyleResp{Index: i, Label: s.Label, Icon: s.Icon, Color: s.Color}
}
