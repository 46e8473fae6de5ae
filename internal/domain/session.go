package domain

import (
	"fmt"
	"strings"
)

// Phase is the presenter state derived from a SessionState.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseAwaitingTopic Phase = "awaiting_topic"
	PhaseSpinning      Phase = "spinning"
	PhaseResultShown   Phase = "result_shown"
)

// SessionState is everything the interactive page needs to render one
// frame. It is a value: transitions produce a new state via Reduce.
type SessionState struct {
	Topic          string  `json:"topic"`
	HasSpun        bool    `json:"has_spun"`
	IsAnimating    bool    `json:"is_animating"`
	ShowResult     bool    `json:"show_result"`
	SelectedIndex  int     `json:"selected_index"`
	SelectedStyle  Style   `json:"selected_style"`
	TargetRotation float64 `json:"target_rotation"`
	VisualRotation float64 `json:"visual_rotation"`
	GeneratedText  string  `json:"generated_text,omitempty"`
	Model          string  `json:"model,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// NewSession returns the Idle state.
func NewSession() SessionState {
	return SessionState{}
}

// Phase derives the state-machine phase from the session fields.
func (s SessionState) Phase() Phase {
	switch {
	case s.IsAnimating:
		return PhaseSpinning
	case s.ShowResult:
		return PhaseResultShown
	case s.Topic != "":
		return PhaseAwaitingTopic
	default:
		return PhaseIdle
	}
}

// CanSpin reports whether the spin control is enabled.
func (s SessionState) CanSpin() bool {
	return s.Phase() == PhaseAwaitingTopic
}

// Event is a user action or an animation signal fed to Reduce.
type Event interface {
	eventName() string
}

// TopicEntered records the topic typed by the user.
type TopicEntered struct{ Topic string }

// SpinStarted carries a spin outcome together with the text that was
// generated for it before the animation began.
type SpinStarted struct {
	Outcome SpinOutcome
	Text    string
	Model   string
}

// SpinFailed reports that generation failed for the current topic.
type SpinFailed struct{ Err string }

// AnimationCompleted signals that the wheel has come to rest.
type AnimationCompleted struct{}

// Reset discards the current result.
type Reset struct{}

func (TopicEntered) eventName() string       { return "topic_entered" }
func (SpinStarted) eventName() string        { return "spin_started" }
func (SpinFailed) eventName() string         { return "spin_failed" }
func (AnimationCompleted) eventName() string { return "animation_completed" }
func (Reset) eventName() string              { return "reset" }

// Reduce applies ev to s. A disallowed event leaves s unchanged and returns
// ErrInvalidTransition.
func Reduce(s SessionState, ev Event) (SessionState, error) {
	phase := s.Phase()

	switch e := ev.(type) {
	case TopicEntered:
		if phase != PhaseIdle && phase != PhaseAwaitingTopic {
			return s, invalid(phase, ev)
		}
		s.Topic = strings.TrimSpace(e.Topic)
		s.Error = ""
		return s, nil

	case SpinStarted:
		if phase == PhaseIdle {
			return s, ErrEmptyTopic
		}
		if phase != PhaseAwaitingTopic {
			return s, invalid(phase, ev)
		}
		s.HasSpun = true
		s.IsAnimating = true
		s.ShowResult = false
		s.SelectedIndex = e.Outcome.Index
		s.SelectedStyle = e.Outcome.Style
		s.TargetRotation = e.Outcome.RotationDegrees
		s.VisualRotation = e.Outcome.RotationDegrees
		s.GeneratedText = e.Text
		s.Model = e.Model
		s.Error = ""
		return s, nil

	case SpinFailed:
		if phase != PhaseAwaitingTopic {
			return s, invalid(phase, ev)
		}
		s.Error = e.Err
		return s, nil

	case AnimationCompleted:
		if phase != PhaseSpinning {
			return s, invalid(phase, ev)
		}
		s.IsAnimating = false
		s.ShowResult = true
		return s, nil

	case Reset:
		if phase == PhaseSpinning {
			return s, invalid(phase, ev)
		}
		return NewSession(), nil
	}

	return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

func invalid(p Phase, ev Event) error {
	return fmt.Errorf("%w: %s during %s", ErrInvalidTransition, ev.eventName(), p)
}
