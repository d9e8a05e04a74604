package toc

// BuildRegions returns one region per heading, in order. Each region ends
// where the next heading starts; the last one ends at docHeight.
func BuildRegions(headings []Heading, docHeight float64) []Region {
	if len(headings) == 0 {
		return nil
	}
	regions := make([]Region, len(headings))
	for i, h := range headings {
		end := docHeight
		if i+1 < len(headings) {
			end = headings[i+1].Offset
		}
		regions[i] = Region{ID: h.ID, Start: h.Offset, End: end}
	}
	return regions
}

// ViewportWindow returns the visible window for a scroll position. The top
// is pushed down by headerOffset.
func ViewportWindow(scroll, viewportHeight, headerOffset float64) Window {
	return Window{
		Top:    scroll + headerOffset,
		Bottom: scroll + viewportHeight,
	}
}

// spanVisible reports whether [top, bottom] overlaps w. The window's bottom
// edge is exclusive: a span starting exactly there is off screen.
func (w Window) spanVisible(top, bottom float64) bool {
	return (top >= w.Top && top < w.Bottom) ||
		(bottom >= w.Top && bottom < w.Bottom) ||
		(top <= w.Top && bottom >= w.Bottom)
}

// VisibleIDs returns the ids of the headings considered in view, in
// document order. A heading counts if it is itself visible, or if its
// region overlaps the window and the next heading has not pushed it out.
// Regions are half open: one ending exactly at the window top is gone.
// regions must have been built from headings.
func VisibleIDs(headings []Heading, regions []Region, w Window) []string {
	if len(headings) == 0 {
		return nil
	}

	active := make(map[string]bool, len(headings))
	for _, h := range headings {
		if w.spanVisible(h.Offset, h.Bottom()) {
			active[h.ID] = true
		}
	}

	for i, r := range regions {
		if i >= len(headings) {
			break
		}
		if r.Start >= w.Bottom || r.End <= w.Top {
			continue
		}
		headingBottom := headings[i].Bottom()
		if r.End > headingBottom && (headingBottom < w.Bottom || w.Top < r.End) {
			active[r.ID] = true
		}
	}

	if len(active) == 0 {
		return nil
	}
	ids := make([]string, 0, len(active))
	for _, h := range headings {
		if active[h.ID] {
			ids = append(ids, h.ID)
			delete(active, h.ID)
		}
	}
	return ids
}

// Progress returns how far through the document the reader has scrolled,
// in [0, 1]. Documents that fit in the viewport report 0.
func Progress(scroll, docHeight, viewportHeight float64) float64 {
	scrollable := docHeight - viewportHeight
	if scrollable <= 0 {
		return 0
	}
	return clamp(scroll/scrollable, 0, 1)
}

// RingOffset is the stroke offset that draws fraction of a ring: the full
// circumference when empty, zero when full.
func RingOffset(circumference, fraction float64) float64 {
	return circumference * (1 - fraction)
}

// CenterTarget returns the panel scroll position that centres a link of
// the given top and height, clamped to the panel's scroll range.
func CenterTarget(linkTop, linkHeight, clientHeight, scrollHeight float64) float64 {
	target := linkTop - (clientHeight-linkHeight)/2
	return max(0, min(target, scrollHeight-clientHeight))
}

// Mask says which edges of a scroll panel should fade.
type Mask struct {
	Top    bool
	Bottom bool
}

// MaskFor computes the fade mask for a panel's own scroll position. An edge
// fades unless the panel is within threshold of it.
func MaskFor(scrollTop, scrollHeight, clientHeight, threshold float64) Mask {
	atTop := scrollTop <= threshold
	atBottom := scrollTop >= scrollHeight-clientHeight-threshold
	return Mask{Top: !atTop, Bottom: !atBottom}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
