package chart

import (
	"fmt"
	"math"

	"candle-chart/src/models"
)

// TooltipLines formats the tooltip text for one candle.
func TooltipLines(c models.MCandle, style models.MRenderStyle) []string {
	lines := []string{
		FormatDate(c.Timestamp, style.DateLayout),
		fmt.Sprintf("O: %s", FormatPrice(c.Open, style.PriceDecimals)),
		fmt.Sprintf("H: %s", FormatPrice(c.High, style.PriceDecimals)),
		fmt.Sprintf("L: %s", FormatPrice(c.Low, style.PriceDecimals)),
		fmt.Sprintf("C: %s", FormatPrice(c.Close, style.PriceDecimals)),
	}
	if c.HasVolume {
		lines = append(lines, fmt.Sprintf("V: %s", FormatPrice(c.Volume, 0)))
	}
	return lines
}

// -----------------------------------------------------------------------------

// tooltipBox sizes the box to the text plus padding and positions it at the
// pointer offset. With ClampTooltip it flips to the other side of the pointer
// when it would overflow, then clamps into the chart rect.
func tooltipBox(lines []string, hover models.MHover, style models.MRenderStyle) (x, y, w, h float64) {
	maxWidth := 0.0
	for _, l := range lines {
		maxWidth = math.Max(maxWidth, TextWidth(l, style.FontSize))
	}
	w = maxWidth + 2*style.TooltipPadding
	h = float64(len(lines))*LineHeight(style.FontSize) + 2*style.TooltipPadding

	x = hover.PointerX + style.TooltipOffsetX
	y = hover.PointerY + style.TooltipOffsetY
	if !style.ClampTooltip {
		return x, y, w, h
	}

	left, top := style.ChartLeft(), style.ChartTop()
	right, bottom := left+style.ChartWidth(), top+style.ChartHeight()

	if x+w > right {
		x = hover.PointerX - style.TooltipOffsetX - w
	}
	if y+h > bottom {
		y = hover.PointerY - style.TooltipOffsetY - h
	}
	x = math.Max(left, math.Min(x, right-w))
	y = math.Max(top, math.Min(y, bottom-h))
	return x, y, w, h
}

// tooltipCommands emits the box followed by one text run per line.
func tooltipCommands(c models.MCandle, hover models.MHover, style models.MRenderStyle) []models.MDrawCommand {
	lines := TooltipLines(c, style)
	x, y, w, h := tooltipBox(lines, hover, style)

	cmds := make([]models.MDrawCommand, 0, len(lines)+1)
	cmds = append(cmds, models.MDrawCommand{
		Kind:  models.DrawRect,
		Layer: models.LayerTooltip,
		X:     x,
		Y:     y,
		W:     w,
		H:     h,
		Color: style.TooltipBackground,
		Fill:  true,
	})

	lh := LineHeight(style.FontSize)
	for i, l := range lines {
		cmds = append(cmds, models.MDrawCommand{
			Kind:     models.DrawText,
			Layer:    models.LayerTooltip,
			X:        x + style.TooltipPadding,
			Y:        y + style.TooltipPadding + float64(i+1)*lh - (lh-style.FontSize),
			Color:    style.TooltipText,
			Text:     l,
			FontSize: style.FontSize,
			Align:    models.AlignLeft,
		})
	}
	return cmds
}
