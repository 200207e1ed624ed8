package labeler

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

type LayoutMode string

const (
	LayoutHorizontal LayoutMode = "horizontal"
	LayoutStacked    LayoutMode = "stacked"
	LayoutRotated    LayoutMode = "rotated"
)

// Measurer reports the axis-aligned box, in geometry coordinates,
// that text would occupy when drawn centered on anchor. text arrives
// display-ready: stacked labels already contain newlines.
type Measurer interface {
	MeasureLabel(text string, anchor orb.Point, rotationDeg float64, fontSize float64) (orb.Bound, error)
}

// Placement is the final label decision. Verified means the measured
// box was confirmed inside the polygon; otherwise the placement is
// best-effort and the caller decides what to do with it.
type Placement struct {
	Text        string     `json:"text"`
	Anchor      orb.Point  `json:"anchor"`
	RotationDeg float64    `json:"rotation_deg"`
	Mode        LayoutMode `json:"mode"`
	FontSize    float64    `json:"font_size"`
	Verified    bool       `json:"verified"`
	// measurement round trips spent on the refinement that produced
	// this placement.
	Steps int `json:"steps"`
}

// DisplayText is the text as drawn: unmodified for horizontal and
// rotated layouts, one character per line for stacked.
func (p *Placement) DisplayText() string {
	return displayTextFor(p.Text, p.Mode)
}

func displayTextFor(text string, mode LayoutMode) string {
	if mode != LayoutStacked {
		return text
	}
	runes := []rune(text)
	lines := make([]string, len(runes))
	for idx, r := range runes {
		lines[idx] = string(r)
	}
	return strings.Join(lines, "\n")
}

// DegenerateBodyError means the dominant polygon has no usable
// interior to place into.
type DegenerateBodyError struct {
	Area float64
}

func (e *DegenerateBodyError) Error() string {
	return fmt.Sprintf("dominant polygon is degenerate (area %g)", e.Area)
}
