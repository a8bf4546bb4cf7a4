package models

// MViewportState is recomputed every frame and never persisted.
type MViewportState struct {
	ScrollOffset float64 `json:"scroll_offset"`
	VisibleStart int     `json:"visible_start"`
	VisibleEnd   int     `json:"visible_end"`
}

// VisibleCount returns VisibleEnd - VisibleStart.
func (v MViewportState) VisibleCount() int {
	return v.VisibleEnd - v.VisibleStart
}

// -----------------------------------------------------------------------------

// MPoint is a pointer position in chart pixels.
type MPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MHover is a pointer position resolved to a candle.
type MHover struct {
	Index    int     `json:"index"`
	PointerX float64 `json:"pointer_x"`
	PointerY float64 `json:"pointer_y"`
}

// -----------------------------------------------------------------------------

// MFrameInput is everything a single frame depends on.
type MFrameInput struct {
	Series       MSeries
	Style        MRenderStyle
	ScrollOffset float64
	Pointer      *MPoint
	Progress     float64
}

// MFrame is the resolved per-frame state handed to the renderer.
type MFrame struct {
	Viewport MViewportState `json:"viewport"`
	Hover    *MHover        `json:"hover,omitempty"`
	Bounds   MPriceBounds   `json:"bounds"`
	Progress float64        `json:"progress"`
}
