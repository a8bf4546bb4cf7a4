package server

import (
	"strconv"

	"candle-chart/src/chart"
	"candle-chart/src/helpers"
	"candle-chart/src/models"

	"github.com/gin-gonic/gin"
)

// optionalFloat reads a float query parameter. A nil result means absent.
func optionalFloat(c *gin.Context, name string) (*float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, helpers.NewValidationError("invalid %s %q", name, raw)
	}
	return &v, nil
}

// frameInput builds the frame for series from the viewport query
// parameters. A missing scroll opens on the latest candles and a missing
// progress renders the finished animation.
func frameInput(c *gin.Context, series models.MSeries, style models.MRenderStyle) (models.MFrameInput, error) {
	names := []string{"width", "height", "candle_width", "scroll", "pointer_x", "pointer_y", "progress"}
	values := make(map[string]*float64, len(names))
	for _, name := range names {
		v, err := optionalFloat(c, name)
		if err != nil {
			return models.MFrameInput{}, err
		}
		values[name] = v
	}

	if v := values["width"]; v != nil {
		style.Width = *v
	}
	if v := values["height"]; v != nil {
		style.Height = *v
	}
	if v := values["candle_width"]; v != nil {
		style.CandleWidth = *v
	}
	if style.Width <= 0 || style.Height <= 0 {
		return models.MFrameInput{}, helpers.NewValidationError("width and height must be positive")
	}
	if style.CandleWidth < 0 {
		return models.MFrameInput{}, helpers.NewValidationError("candle_width must not be negative")
	}

	in := models.MFrameInput{
		Series:   series,
		Style:    style,
		Progress: 1,
	}
	if v := values["scroll"]; v != nil {
		in.ScrollOffset = *v
	} else {
		in.ScrollOffset = chart.LatestScrollOffset(series.Len(), style.CandleWidth, style.SpacingRatio, style.ChartWidth())
	}
	if v := values["progress"]; v != nil {
		in.Progress = *v
	}

	px, py := values["pointer_x"], values["pointer_y"]
	switch {
	case px != nil && py != nil:
		in.Pointer = &models.MPoint{X: *px, Y: *py}
	case px != nil || py != nil:
		return models.MFrameInput{}, helpers.NewValidationError("pointer_x and pointer_y must be given together")
	}
	return in, nil
}
