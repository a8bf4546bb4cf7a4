package chart

import (
	"candle-chart/src/models"
)

// ComputeFrame resolves the per-frame state: clamped scroll, visible range,
// price bounds and the hovered candle, if any.
func ComputeFrame(in models.MFrameInput) models.MFrame {
	style := in.Style
	n := in.Series.Len()

	scroll := ClampScrollOffset(in.ScrollOffset, n, style.CandleWidth, style.SpacingRatio, style.ChartWidth())
	start, end := ComputeVisibleRange(n, style.CandleWidth, style.SpacingRatio, scroll, style.ChartWidth())

	frame := models.MFrame{
		Viewport: models.MViewportState{
			ScrollOffset: scroll,
			VisibleStart: start,
			VisibleEnd:   end,
		},
		Bounds:   PriceBoundsOf(in.Series.Candles),
		Progress: clampProgress(in.Progress),
	}

	if p := in.Pointer; p != nil && insideChartY(p.Y, style) {
		if idx, ok := FindCandleAtX(p.X, style.CandleWidth, style.SpacingRatio, scroll, style.ChartLeft(), start, end); ok {
			frame.Hover = &models.MHover{Index: idx, PointerX: p.X, PointerY: p.Y}
		}
	}
	return frame
}

// RenderFrame computes the frame and renders it.
func RenderFrame(in models.MFrameInput) (models.MFrame, []models.MDrawCommand) {
	frame := ComputeFrame(in)
	return frame, Render(in.Series, frame.Viewport, in.Style, frame.Progress, frame.Hover)
}

// -----------------------------------------------------------------------------

// ShouldRepaint reports whether next can render differently from prev.
// Series content is identified by symbol, interval, Version and length
// only, so both inputs must come from versioned store snapshots. Parsed
// documents all carry Version 0 and need a fresh Version before they are
// compared.
func ShouldRepaint(prev, next models.MFrameInput) bool {
	if prev.Series.Symbol != next.Series.Symbol ||
		prev.Series.Interval != next.Series.Interval ||
		prev.Series.Version != next.Series.Version ||
		prev.Series.Len() != next.Series.Len() {
		return true
	}
	if prev.Style != next.Style {
		return true
	}
	if prev.ScrollOffset != next.ScrollOffset || prev.Progress != next.Progress {
		return true
	}
	if (prev.Pointer == nil) != (next.Pointer == nil) {
		return true
	}
	if prev.Pointer != nil && *prev.Pointer != *next.Pointer {
		return true
	}
	return false
}

func insideChartY(y float64, style models.MRenderStyle) bool {
	return y >= style.ChartTop() && y <= style.ChartTop()+style.ChartHeight()
}
