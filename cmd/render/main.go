package main

import (
	"flag"
	"fmt"
	"os"

	"candle-chart/src/adapter"
	"candle-chart/src/chart"
	"candle-chart/src/logger"
	"candle-chart/src/models"

	"github.com/goccy/go-json"
)

// render reads a Plotly candlestick document and prints the draw commands
// of one frame as JSON.
func main() {
	input := flag.String("input", "doc.json", "path to a Plotly JSON document")
	width := flag.Float64("width", 0, "chart width in pixels (default from document)")
	height := flag.Float64("height", 0, "chart height in pixels (default from document)")
	scroll := flag.Float64("scroll", -1, "scroll offset in pixels, -1 for the latest candles")
	progress := flag.Float64("progress", 1, "animation progress in [0,1]")
	pointerX := flag.Float64("pointer-x", -1, "pointer x in pixels, -1 for none")
	pointerY := flag.Float64("pointer-y", -1, "pointer y in pixels, -1 for none")
	flag.Parse()

	log := logger.NewLogger(nil, "Render")

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Critical("Cannot read %s: %v", *input, err)
		return
	}
	doc, err := adapter.ParseDocument(data)
	if err != nil {
		log.Critical("Invalid document: %v", err)
		return
	}

	style := doc.Style
	if *width > 0 {
		style.Width = *width
	}
	if *height > 0 {
		style.Height = *height
	}
	series := doc.Series[0]

	in := models.MFrameInput{Series: series, Style: style, ScrollOffset: *scroll, Progress: *progress}
	if *scroll < 0 {
		in.ScrollOffset = chart.LatestScrollOffset(series.Len(), style.CandleWidth, style.SpacingRatio, style.ChartWidth())
	}
	if *pointerX >= 0 && *pointerY >= 0 {
		in.Pointer = &models.MPoint{X: *pointerX, Y: *pointerY}
	}

	frame, commands := chart.RenderFrame(in)
	out, err := json.MarshalIndent(models.MFrameMessage{
		Type:     models.MsgFrame,
		Symbol:   series.Symbol,
		Interval: series.Interval,
		Version:  series.Version,
		Frame:    frame,
		Commands: commands,
	}, "", "  ")
	if err != nil {
		log.Critical("Encode failed: %v", err)
		return
	}
	fmt.Println(string(out))
}
