package chart

import (
	"testing"

	"candle-chart/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var layerRank = map[models.DrawLayer]int{
	models.LayerBackground: 0,
	models.LayerPriceGrid:  1,
	models.LayerDateGrid:   2,
	models.LayerCandles:    3,
	models.LayerAxisLabels: 4,
	models.LayerHover:      5,
	models.LayerTooltip:    6,
}

func visibleViewport(s models.MSeries, style models.MRenderStyle, scroll float64) models.MViewportState {
	start, end := ComputeVisibleRange(s.Len(), style.CandleWidth, style.SpacingRatio, scroll, style.ChartWidth())
	return models.MViewportState{ScrollOffset: scroll, VisibleStart: start, VisibleEnd: end}
}

func TestRender_Idempotent(t *testing.T) {
	s := makeSeries(120)
	style := models.DefaultRenderStyle()
	vp := visibleViewport(s, style, 200)
	hover := &models.MHover{Index: vp.VisibleStart + 3, PointerX: 100, PointerY: 120}

	first := Render(s, vp, style, 0.7, hover)
	second := Render(s, vp, style, 0.7, hover)
	assert.Equal(t, first, second)
}

func TestRender_EmptySeriesDrawsBackgroundOnly(t *testing.T) {
	style := models.DefaultRenderStyle()
	cmds := Render(models.MSeries{}, models.MViewportState{}, style, 1, nil)

	require.Len(t, cmds, 1)
	assert.Equal(t, models.LayerBackground, cmds[0].Layer)
	assert.Equal(t, style.Width, cmds[0].W)
	assert.Equal(t, style.Height, cmds[0].H)

	_, ok := FindCandleAtX(50, style.CandleWidth, style.SpacingRatio, 0, style.ChartLeft(), 0, 0)
	assert.False(t, ok)
}

func TestRender_LayerOrder(t *testing.T) {
	s := makeSeries(80)
	style := models.DefaultRenderStyle()
	vp := visibleViewport(s, style, 0)
	hover := &models.MHover{Index: 4, PointerX: 50, PointerY: 50}

	cmds := Render(s, vp, style, 1, hover)
	seen := map[models.DrawLayer]bool{}
	last := -1
	for _, c := range cmds {
		rank, ok := layerRank[c.Layer]
		require.True(t, ok, "unknown layer %q", c.Layer)
		assert.GreaterOrEqual(t, rank, last, "layer %q drawn after a later layer", c.Layer)
		last = rank
		seen[c.Layer] = true
	}
	assert.Len(t, seen, len(layerRank))
}

func TestRender_CandleCommandsPerVisibleCandle(t *testing.T) {
	s := makeSeries(200)
	style := models.DefaultRenderStyle()
	vp := visibleViewport(s, style, 500)

	cmds := Render(s, vp, style, 1, nil)
	wicks := commandsIn(cmds, models.LayerCandles, models.DrawLine)
	bodies := commandsIn(cmds, models.LayerCandles, models.DrawRect)
	assert.Len(t, wicks, vp.VisibleCount())
	assert.Len(t, bodies, vp.VisibleCount())

	first := s.Candles[vp.VisibleStart]
	expected := style.Bearish
	if first.IsBullish() {
		expected = style.Bullish
	}
	assert.Equal(t, expected, bodies[0].Color)
}

func TestRender_DateLabelsAreDecimated(t *testing.T) {
	s := makeSeries(100)
	style := models.DefaultRenderStyle()
	vp := visibleViewport(s, style, 0)
	require.Equal(t, 78, vp.VisibleCount())

	// ceil(78/6) = 13 -> indices 0, 13, 26, 39, 52, 65.
	cmds := Render(s, vp, style, 1, nil)
	assert.Len(t, commandsIn(cmds, models.LayerDateGrid, models.DrawLine), 6)

	var dates []string
	for _, c := range commandsIn(cmds, models.LayerAxisLabels, models.DrawText) {
		if c.Align == models.AlignCenter {
			dates = append(dates, c.Text)
		}
	}
	require.Len(t, dates, 6)
	assert.Equal(t, "2024-01-01", dates[0])
	assert.Equal(t, "2024-01-14", dates[1])
}

func TestRender_PriceLabels(t *testing.T) {
	s := models.MSeries{Candles: []models.MCandle{
		{Timestamp: baseTime, Open: 10, High: 20, Low: 0, Close: 15},
	}}
	style := models.DefaultRenderStyle()
	style.HorizontalDivisions = 4

	cmds := Render(s, visibleViewport(s, style, 0), style, 1, nil)
	assert.Len(t, commandsIn(cmds, models.LayerPriceGrid, models.DrawLine), 5)

	var labels []string
	for _, c := range commandsIn(cmds, models.LayerAxisLabels, models.DrawText) {
		if c.Align == models.AlignLeft {
			labels = append(labels, c.Text)
		}
	}
	assert.Equal(t, []string{"20.00", "15.00", "10.00", "5.00", "0.00"}, labels)
}

func TestRender_SingleCandleAndZeroDivisions(t *testing.T) {
	s := makeSeries(1)
	style := models.DefaultRenderStyle()
	style.HorizontalDivisions = 0
	style.VerticalDivisions = 0

	cmds := Render(s, visibleViewport(s, style, 0), style, 1, nil)
	assert.Empty(t, commandsIn(cmds, models.LayerPriceGrid, models.DrawLine))
	assert.Empty(t, commandsIn(cmds, models.LayerDateGrid, models.DrawLine))
	assert.Empty(t, commandsIn(cmds, models.LayerAxisLabels, models.DrawText))
	assert.Len(t, commandsIn(cmds, models.LayerCandles, models.DrawRect), 1)
}

func TestRender_FlatSeriesSitsAtCenter(t *testing.T) {
	s := models.MSeries{Candles: []models.MCandle{
		{Timestamp: baseTime, Open: 5, High: 5, Low: 5, Close: 5},
		{Timestamp: baseTime.AddDate(0, 0, 1), Open: 5, High: 5, Low: 5, Close: 5},
	}}
	style := models.DefaultRenderStyle()

	cmds := Render(s, visibleViewport(s, style, 0), style, 1, nil)
	center := style.ChartTop() + style.ChartHeight()/2
	for _, w := range commandsIn(cmds, models.LayerCandles, models.DrawLine) {
		assert.InDelta(t, center, w.Y, 1e-9)
		assert.InDelta(t, center, w.Y2, 1e-9)
	}
}

func TestRender_TooltipContentAndClamping(t *testing.T) {
	s := makeSeries(10)
	s.Candles[2].HasVolume = true
	s.Candles[2].Volume = 1234
	style := models.DefaultRenderStyle()
	vp := visibleViewport(s, style, 0)

	right := style.ChartLeft() + style.ChartWidth()
	bottom := style.ChartTop() + style.ChartHeight()
	hover := &models.MHover{Index: 2, PointerX: right - 5, PointerY: bottom - 5}

	cmds := Render(s, vp, style, 1, hover)
	boxes := commandsIn(cmds, models.LayerTooltip, models.DrawRect)
	texts := commandsIn(cmds, models.LayerTooltip, models.DrawText)
	require.Len(t, boxes, 1)
	require.Len(t, texts, 6)
	assert.Equal(t, "2024-01-03", texts[0].Text)
	assert.Equal(t, "V: 1234", texts[5].Text)

	box := boxes[0]
	assert.LessOrEqual(t, box.X+box.W, right+1e-9)
	assert.LessOrEqual(t, box.Y+box.H, bottom+1e-9)
	assert.GreaterOrEqual(t, box.X, style.ChartLeft())
	assert.GreaterOrEqual(t, box.Y, style.ChartTop())

	guides := commandsIn(cmds, models.LayerHover, models.DrawLine)
	require.Len(t, guides, 1)
	assert.InDelta(t, IndexToX(2, style.CandleWidth, style.SpacingRatio, 0, style.ChartLeft())+style.CandleWidth/2, guides[0].X, 1e-9)
}

func TestRender_TooltipWithoutClamping(t *testing.T) {
	s := makeSeries(10)
	style := models.DefaultRenderStyle()
	style.ClampTooltip = false
	hover := &models.MHover{Index: 1, PointerX: 790, PointerY: 390}

	cmds := Render(s, visibleViewport(s, style, 0), style, 1, hover)
	boxes := commandsIn(cmds, models.LayerTooltip, models.DrawRect)
	require.Len(t, boxes, 1)
	assert.Equal(t, 790+style.TooltipOffsetX, boxes[0].X)
	assert.Equal(t, 390+style.TooltipOffsetY, boxes[0].Y)
}
