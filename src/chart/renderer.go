package chart

import (
	"candle-chart/src/models"
)

const (
	gridStrokeWidth  = 1
	wickStrokeWidth  = 1
	hoverStrokeWidth = 1
	axisLabelMargin  = 4
)

// -----------------------------------------------------------------------------

// Render turns one frame into an ordered list of draw commands, back to
// front: background, price grid, date grid, candles, axis labels, hover
// guide, tooltip. It has no side effects; equal inputs give equal output.
func Render(series models.MSeries, viewport models.MViewportState, style models.MRenderStyle, progress float64, hover *models.MHover) []models.MDrawCommand {
	cmds := []models.MDrawCommand{{
		Kind:  models.DrawRect,
		Layer: models.LayerBackground,
		W:     style.Width,
		H:     style.Height,
		Color: style.Background,
		Fill:  true,
	}}

	candles := series.Candles
	if len(candles) == 0 {
		return cmds
	}

	start, end := clampRange(viewport.VisibleStart, viewport.VisibleEnd, len(candles))
	bounds := PriceBoundsOf(candles)
	step := LabelStep(end-start, style.VerticalDivisions)

	cmds = append(cmds, priceGrid(style)...)
	cmds = append(cmds, dateGrid(start, end, step, viewport.ScrollOffset, style)...)
	cmds = append(cmds, candleBodies(candles, start, end, bounds, viewport.ScrollOffset, style, progress)...)
	cmds = append(cmds, priceLabels(bounds, style)...)
	cmds = append(cmds, dateLabels(candles, start, end, step, viewport.ScrollOffset, style)...)

	if hover != nil && hover.Index >= 0 && hover.Index < len(candles) {
		cx := candleCenter(hover.Index, viewport.ScrollOffset, style)
		cmds = append(cmds, models.MDrawCommand{
			Kind:        models.DrawLine,
			Layer:       models.LayerHover,
			X:           cx,
			Y:           style.ChartTop(),
			X2:          cx,
			Y2:          style.ChartTop() + style.ChartHeight(),
			Color:       style.HoverLine,
			StrokeWidth: hoverStrokeWidth,
		})
		cmds = append(cmds, tooltipCommands(candles[hover.Index], *hover, style)...)
	}

	return cmds
}

// -----------------------------------------------------------------------------

func priceGrid(style models.MRenderStyle) []models.MDrawCommand {
	n := style.HorizontalDivisions
	if n <= 0 {
		return nil
	}

	left, top := style.ChartLeft(), style.ChartTop()
	right := left + style.ChartWidth()
	cmds := make([]models.MDrawCommand, 0, n+1)
	for i := 0; i <= n; i++ {
		y := top + style.ChartHeight()*float64(i)/float64(n)
		cmds = append(cmds, models.MDrawCommand{
			Kind:        models.DrawLine,
			Layer:       models.LayerPriceGrid,
			X:           left,
			Y:           y,
			X2:          right,
			Y2:          y,
			Color:       style.Grid,
			StrokeWidth: gridStrokeWidth,
		})
	}
	return cmds
}

func dateGrid(start, end, step int, scroll float64, style models.MRenderStyle) []models.MDrawCommand {
	if step <= 0 {
		return nil
	}

	top := style.ChartTop()
	bottom := top + style.ChartHeight()
	var cmds []models.MDrawCommand
	for i := firstMultiple(start, step); i < end; i += step {
		cx := candleCenter(i, scroll, style)
		if !insideChartX(cx, style) {
			continue
		}
		cmds = append(cmds, models.MDrawCommand{
			Kind:        models.DrawLine,
			Layer:       models.LayerDateGrid,
			X:           cx,
			Y:           top,
			X2:          cx,
			Y2:          bottom,
			Color:       style.Grid,
			StrokeWidth: gridStrokeWidth,
		})
	}
	return cmds
}

func candleBodies(candles []models.MCandle, start, end int, bounds models.MPriceBounds, scroll float64, style models.MRenderStyle, progress float64) []models.MDrawCommand {
	top, height := style.ChartTop(), style.ChartHeight()
	cmds := make([]models.MDrawCommand, 0, 2*(end-start))

	for i := start; i < end; i++ {
		c := candles[i]
		color := style.Bearish
		if c.IsBullish() {
			color = style.Bullish
		}

		x := IndexToX(i, style.CandleWidth, style.SpacingRatio, scroll, style.ChartLeft())
		cx := x + style.CandleWidth/2

		cmds = append(cmds, models.MDrawCommand{
			Kind:        models.DrawLine,
			Layer:       models.LayerCandles,
			X:           cx,
			Y:           PriceToY(c.High, bounds, top, height, progress),
			X2:          cx,
			Y2:          PriceToY(c.Low, bounds, top, height, progress),
			Color:       color,
			StrokeWidth: wickStrokeWidth,
		})

		yOpen := PriceToY(c.Open, bounds, top, height, progress)
		yClose := PriceToY(c.Close, bounds, top, height, progress)
		bodyTop, bodyHeight := yOpen, yClose-yOpen
		if yClose < yOpen {
			bodyTop, bodyHeight = yClose, yOpen-yClose
		}
		if bodyHeight < style.MinBodyHeight {
			bodyTop -= (style.MinBodyHeight - bodyHeight) / 2
			bodyHeight = style.MinBodyHeight
		}

		cmds = append(cmds, models.MDrawCommand{
			Kind:  models.DrawRect,
			Layer: models.LayerCandles,
			X:     x,
			Y:     bodyTop,
			W:     style.CandleWidth,
			H:     bodyHeight,
			Color: color,
			Fill:  true,
		})
	}
	return cmds
}

func priceLabels(bounds models.MPriceBounds, style models.MRenderStyle) []models.MDrawCommand {
	n := style.HorizontalDivisions
	if n <= 0 {
		return nil
	}

	low, high := bounds.Low, bounds.High
	if high == low {
		low, high = low-0.5, high+0.5
	}

	x := style.ChartLeft() + style.ChartWidth() + axisLabelMargin
	cmds := make([]models.MDrawCommand, 0, n+1)
	for i := 0; i <= n; i++ {
		y := style.ChartTop() + style.ChartHeight()*float64(i)/float64(n)
		value := high - (high-low)*float64(i)/float64(n)
		cmds = append(cmds, models.MDrawCommand{
			Kind:     models.DrawText,
			Layer:    models.LayerAxisLabels,
			X:        x,
			Y:        y + style.FontSize/2,
			Color:    style.Text,
			Text:     FormatPrice(value, style.PriceDecimals),
			FontSize: style.FontSize,
			Align:    models.AlignLeft,
		})
	}
	return cmds
}

func dateLabels(candles []models.MCandle, start, end, step int, scroll float64, style models.MRenderStyle) []models.MDrawCommand {
	if step <= 0 {
		return nil
	}

	y := style.ChartTop() + style.ChartHeight() + axisLabelMargin + style.FontSize
	var cmds []models.MDrawCommand
	for i := firstMultiple(start, step); i < end; i += step {
		cx := candleCenter(i, scroll, style)
		if !insideChartX(cx, style) {
			continue
		}
		cmds = append(cmds, models.MDrawCommand{
			Kind:     models.DrawText,
			Layer:    models.LayerAxisLabels,
			X:        cx,
			Y:        y,
			Color:    style.Text,
			Text:     FormatDate(candles[i].Timestamp, style.DateLayout),
			FontSize: style.FontSize,
			Align:    models.AlignCenter,
		})
	}
	return cmds
}

// -----------------------------------------------------------------------------

func candleCenter(i int, scroll float64, style models.MRenderStyle) float64 {
	return IndexToX(i, style.CandleWidth, style.SpacingRatio, scroll, style.ChartLeft()) + style.CandleWidth/2
}

func insideChartX(x float64, style models.MRenderStyle) bool {
	return x >= style.ChartLeft() && x <= style.ChartLeft()+style.ChartWidth()
}

// firstMultiple returns the smallest multiple of step that is >= start.
func firstMultiple(start, step int) int {
	if r := start % step; r != 0 {
		return start + step - r
	}
	return start
}

func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}
