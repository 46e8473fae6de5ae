package domain

import "fmt"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Style is a presentation mode applied to a generated explanation.
// Its identity is its position in the catalog.
type Style struct {
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
	Color string `json:"color" yaml:"color"`
}

// Catalog is the ordered, fixed set of styles a wheel is built from.
type Catalog struct {
	Styles []Style `json:"styles" yaml:"styles"`
}

// Len returns the number of wheel segments.
func (c Catalog) Len() int { return len(c.Styles) }

// At returns the style at index i.
func (c Catalog) At(i int) (Style, error) {
	if i < 0 || i >= len(c.Styles) {
		return Style{}, ErrIndexOutOfRange
	}
	return c.Styles[i], nil
}

// Labels returns the style labels in catalog order.
func (c Catalog) Labels() []string {
	out := make([]string, len(c.Styles))
	for i, s := range c.Styles {
		out[i] = s.Label
	}
	return out
}

// Validate reports whether the catalog can drive a wheel: at least one
// style, and every style has a label, an icon and a #RRGGBB color.
func (c Catalog) Validate() error {
	if len(c.Styles) == 0 {
		return ErrEmptyCatalog
	}
	for i, s := range c.Styles {
		if s.Label == "" || s.Icon == "" {
			return fmt.Errorf("%w: style %d is missing a label or icon", ErrInvalidCatalog, i)
		}
		if !isHexColor(s.Color) {
			return fmt.Errorf("%w: style %d has invalid color %q", ErrInvalidCatalog, i, s.Color)
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// SpinOutcome is the result of one spin: which segment won and how far the
// wheel has to turn for the pointer to land on it.
type SpinOutcome struct {
	Index           int     `json:"index"`
	Style           Style   `json:"style"`
	RotationDegrees float64 `json:"rotation_degrees"`
}

// Prompt is the pair of messages sent to the generation service.
type Prompt struct {
	System string
	User   string
}
