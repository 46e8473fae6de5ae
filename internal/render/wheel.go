// Package render draws the style wheel as a standalone SVG document.
//
// The wheel is a pure function of the catalog and the requested rotation:
// N equal pie slices starting at 12 o'clock, an icon centered in each, a hub,
// and a fixed pointer at the top rim. When animated, a CSS keyframe rotates
// the wheel from 0 to the target angle with an ease-out curve and holds the
// final frame.
package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"time"

	"github.com/randomtoy/vibecheck/internal/domain"
)

// Geometry of the 400x400 viewBox.
const (
	Size        = 400.0
	Center      = Size / 2
	Radius      = 150.0
	LabelRadius = 100.0
	HubRadius   = 30.0
	HubDot      = 15.0
	IconSize    = 32
)

// SpinEasing decelerates sharply near the end, so the wheel creeps onto its
// segment.
const SpinEasing = "cubic-bezier(0.17, 0.67, 0.12, 0.99)"

// DefaultGroupID is the id of the rotating <g>.
const DefaultGroupID = "wheel"

type WheelOption func(*wheelRenderer)

type wheelRenderer struct {
	rotation float64
	animate  bool
	target   float64
	duration time.Duration
	groupID  string
}

// WithRotation draws the wheel at rest, rotated by deg.
func WithRotation(deg float64) WheelOption {
	return func(r *wheelRenderer) { r.rotation = deg }
}

// WithAnimation spins the wheel from 0 to target over d.
func WithAnimation(target float64, d time.Duration) WheelOption {
	return func(r *wheelRenderer) {
		r.animate = true
		r.target = target
		r.duration = d
	}
}

func WithGroupID(id string) WheelOption {
	return func(r *wheelRenderer) { r.groupID = id }
}

// Wheel renders styles as an SVG wheel.
func Wheel(styles []domain.Style, opts ...WheelOption) []byte {
	r := wheelRenderer{groupID: DefaultGroupID, duration: 3 * time.Second}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" style="max-width: 400px; margin: auto; display: block;">`+"\n",
		Size, Size)

	rotation := r.rotation
	if r.animate {
		renderSpinStyle(&buf, r.groupID, r.target, r.duration)
		rotation = 0
	}

	fmt.Fprintf(&buf, `  <g id="%s" class="wheel-group" transform="rotate(%s %.0f %.0f)">`+"\n",
		html.EscapeString(r.groupID), num(rotation), Center, Center)
	n := len(styles)
	for i, s := range styles {
		renderSegment(&buf, i, n, s)
	}
	buf.WriteString("  </g>\n")

	renderHub(&buf)
	renderPointer(&buf)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderSpinStyle(buf *bytes.Buffer, id string, target float64, d time.Duration) {
	fmt.Fprintf(buf, `  <style>
    @keyframes spin {
      from { transform: rotate(0deg); }
      to { transform: rotate(%sdeg); }
    }
    #%s {
      animation: spin %ss %s forwards;
      transform-origin: center;
      transform-box: view-box;
    }
  </style>
`, num(target), id, num(d.Seconds()), SpinEasing)
}

// SegmentPath returns the SVG path of slice i of n on an unrotated wheel.
func SegmentPath(i, n int) string {
	start, end := domain.SegmentBounds(i, n)
	if n == 1 {
		// A single slice is a full disc; an arc cannot start and end on the
		// same point.
		return fmt.Sprintf("M %s %s m -%s 0 a %s %s 0 1 0 %s 0 a %s %s 0 1 0 -%s 0 Z",
			num(Center), num(Center), num(Radius),
			num(Radius), num(Radius), num(2*Radius),
			num(Radius), num(Radius), num(2*Radius))
	}
	x1, y1 := polar(Radius, start)
	x2, y2 := polar(Radius, end)
	largeArc := 0
	if end-start > 180 {
		largeArc = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		num(Center), num(Center), num(x1), num(y1),
		num(Radius), num(Radius), largeArc, num(x2), num(y2))
}

// LabelPosition returns where the icon of slice i of n is centered and the
// angle it is turned by so it reads outward from the hub.
func LabelPosition(i, n int) (x, y, angle float64) {
	start, _ := domain.SegmentBounds(i, n)
	mid := start + domain.SegmentWidth(n)/2
	x, y = polar(LabelRadius, mid)
	return x, y, mid + 90
}

func renderSegment(buf *bytes.Buffer, i, n int, s domain.Style) {
	fmt.Fprintf(buf, `    <path d="%s" fill="%s" stroke="white" stroke-width="2"><title>%s</title></path>`+"\n",
		SegmentPath(i, n), html.EscapeString(s.Color), html.EscapeString(s.Label))

	x, y, angle := LabelPosition(i, n)
	fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" fill="white" font-size="%d" transform="rotate(%s %s %s)">%s</text>`+"\n",
		num(x), num(y), IconSize, num(angle), num(x), num(y), html.EscapeString(s.Icon))
}

func renderHub(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <circle cx="%.0f" cy="%.0f" r="%.0f" fill="white" stroke="#333" stroke-width="3"/>`+"\n", Center, Center, HubRadius)
	fmt.Fprintf(buf, `  <circle cx="%.0f" cy="%.0f" r="%.0f" fill="#333"/>`+"\n", Center, Center, HubDot)
}

// renderPointer draws a downward triangle whose tip touches the top rim.
func renderPointer(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <g class="pointer" transform="translate(%.0f, %.0f)">`+"\n", Center, Center-Radius)
	buf.WriteString(`    <path d="M 0 0 L -15 -20 L 15 -20 Z" fill="#FF4444" stroke="#CC0000" stroke-width="2"/>` + "\n")
	buf.WriteString("  </g>\n")
}

func polar(r, deg float64) (x, y float64) {
	rad := deg * math.Pi / 180
	return Center + r*math.Cos(rad), Center + r*math.Sin(rad)
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // normalize -0
	}
	return fmt.Sprintf("%g", v)
}
