// Package toc tracks which section of a scrolling document is in view and
// keeps a table of contents panel in sync with it.
//
// The geometry (BuildRegions, VisibleIDs, Progress, CenterTarget, MaskFor) is
// pure and works on plain values. Sidebar and Mobile bind that geometry to a
// Host and its UI surfaces. Each Attach returns a detach function; nothing is
// registered globally.
package toc

import (
	"io"
	"log/slog"
	"math"
	"time"
)

const (
	// DefaultHeaderOffset compensates for a sticky header covering the top
	// of the viewport, in pixels.
	DefaultHeaderOffset = 150

	// DefaultDeadZone is the smallest panel scroll correction that is applied.
	DefaultDeadZone = 5

	// DefaultMaskThreshold is how close to a scroll extremity counts as at it.
	DefaultMaskThreshold = 5

	// DefaultSettleDelay lets a freshly shown panel measure itself before
	// the fade mask is computed.
	DefaultSettleDelay = 100 * time.Millisecond

	// FallbackLabel is the summary shown when no section is active.
	FallbackLabel = "Overview"
)

// DefaultCircumference is the circumference of a progress ring of radius 10.
var DefaultCircumference = 2 * math.Pi * 10

// Heading is a section marker measured in the rendered document.
type Heading struct {
	ID     string
	Text   string
	Level  int
	Offset float64
	Height float64
}

// Bottom returns the heading's lower edge.
func (h Heading) Bottom() float64 {
	return h.Offset + h.Height
}

// Region is the span of the document owned by a heading.
type Region struct {
	ID    string
	Start float64
	End   float64
}

// Window is the visible part of the document.
type Window struct {
	Top    float64
	Bottom float64
}

// Options tune a controller. Zero fields take the defaults above. A
// negative HeaderOffset, DeadZone or MaskThreshold means zero.
type Options struct {
	HeaderOffset  float64
	DeadZone      float64
	MaskThreshold float64
	SettleDelay   time.Duration
	Circumference float64
	Fallback      string
	Logger        *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.HeaderOffset == 0 {
		o.HeaderOffset = DefaultHeaderOffset
	}
	if o.DeadZone == 0 {
		o.DeadZone = DefaultDeadZone
	}
	if o.MaskThreshold == 0 {
		o.MaskThreshold = DefaultMaskThreshold
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.Circumference == 0 {
		o.Circumference = DefaultCircumference
	}
	if o.Fallback == "" {
		o.Fallback = FallbackLabel
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	o.HeaderOffset = max(o.HeaderOffset, 0)
	o.DeadZone = max(o.DeadZone, 0)
	o.MaskThreshold = max(o.MaskThreshold, 0)
	return o
}
