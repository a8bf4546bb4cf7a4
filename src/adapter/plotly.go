package adapter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"candle-chart/src/animation"
	"candle-chart/src/helpers"
	"candle-chart/src/models"

	"github.com/goccy/go-json"
)

// Epoch numbers above this are milliseconds.
const epochMillisThreshold = 1e11

var (
	xLayouts       = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"}
	fixedTickRegex = regexp.MustCompile(`^\.(\d+)f$`)
)

// -----------------------------------------------------------------------------

// ParseDocument turns a Plotly-style figure into typed series and a style.
// Every candlestick or ohlc trace becomes one series.
func ParseDocument(data []byte) (*models.MChartDocument, error) {
	var doc plotlyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, helpers.NewValidationError("invalid plotly document: %v", err)
	}

	out := &models.MChartDocument{Title: layoutTitle(doc.Layout)}
	var first *plotlyTrace
	for i := range doc.Data {
		tr := &doc.Data[i]
		if !isCandleTrace(tr) {
			continue
		}
		series, err := traceSeries(i, tr, doc.Config)
		if err != nil {
			return nil, err
		}
		out.Series = append(out.Series, series)
		if first == nil {
			first = tr
		}
	}
	if first == nil {
		return nil, helpers.NewValidationError("document has no candlestick trace")
	}

	style, err := resolveStyle(first, doc.Layout, doc.Config)
	if err != nil {
		return nil, err
	}
	out.Style = style
	return out, nil
}

func isCandleTrace(tr *plotlyTrace) bool {
	switch strings.ToLower(tr.Type) {
	case "candlestick", "ohlc":
		return true
	case "":
		return len(tr.Open) > 0
	}
	return false
}

func layoutTitle(l *plotlyLayout) string {
	if l == nil || l.Title == nil {
		return ""
	}
	switch t := l.Title.(type) {
	case string:
		return t
	case map[string]interface{}:
		if s, ok := t["text"].(string); ok {
			return s
		}
	}
	return ""
}

// -----------------------------------------------------------------------------

func traceSeries(index int, tr *plotlyTrace, cfg *plotlyConfig) (models.MSeries, error) {
	n := len(tr.X)
	fields := []struct {
		name   string
		values []float64
	}{
		{"open", tr.Open},
		{"high", tr.High},
		{"low", tr.Low},
		{"close", tr.Close},
	}
	if tr.Volume != nil {
		fields = append(fields, struct {
			name   string
			values []float64
		}{"volume", tr.Volume})
	}
	for _, f := range fields {
		if len(f.values) != n {
			return models.MSeries{}, helpers.NewValidationError(
				"trace %d: field %q has %d values, expected %d (len(x))", index, f.name, len(f.values), n)
		}
	}

	candles := make([]models.MCandle, n)
	for i := 0; i < n; i++ {
		ts, err := parseX(tr.X[i])
		if err != nil {
			return models.MSeries{}, helpers.NewValidationError("trace %d: x[%d]: %v", index, i, err)
		}
		c := models.MCandle{
			Timestamp: ts,
			Open:      tr.Open[i],
			High:      tr.High[i],
			Low:       tr.Low[i],
			Close:     tr.Close[i],
		}
		if tr.Volume != nil {
			c.Volume = tr.Volume[i]
			c.HasVolume = true
		}
		candles[i] = c
	}

	symbol := tr.Name
	if symbol == "" && cfg != nil && cfg.Symbol != nil {
		symbol = *cfg.Symbol
	}
	if symbol == "" {
		symbol = fmt.Sprintf("trace%d", index)
	}
	interval := ""
	if cfg != nil && cfg.Interval != nil {
		interval = *cfg.Interval
	}
	if interval == "" {
		interval = InferInterval(candles)
	}

	return models.MSeries{Symbol: symbol, Interval: interval, Candles: candles}, nil
}

// parseX accepts date strings or epoch numbers (seconds, or milliseconds
// above epochMillisThreshold).
func parseX(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case string:
		for _, layout := range xLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparsable date %q", x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, fmt.Errorf("invalid epoch %v", x)
		}
		if math.Abs(x) > epochMillisThreshold {
			return time.UnixMilli(int64(x)).UTC(), nil
		}
		sec, frac := math.Modf(x)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, err
		}
		return parseX(f)
	}
	return time.Time{}, fmt.Errorf("unsupported x value %v", v)
}

// InferInterval names the smallest positive gap between candles ("5m",
// "1h", "1d"). An empty string means the gap cannot be determined.
func InferInterval(candles []models.MCandle) string {
	var gap time.Duration
	for i := 1; i < len(candles); i++ {
		d := candles[i].Timestamp.Sub(candles[i-1].Timestamp)
		if d > 0 && (gap == 0 || d < gap) {
			gap = d
		}
	}
	return FormatInterval(gap)
}

// FormatInterval is the inverse of analysis.ParseInterval for whole units.
func FormatInterval(d time.Duration) string {
	switch {
	case d < time.Second || d%time.Second != 0:
		return ""
	case d%(7*24*time.Hour) == 0:
		return fmt.Sprintf("%dw", d/(7*24*time.Hour))
	case d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return fmt.Sprintf("%ds", d/time.Second)
}

// -----------------------------------------------------------------------------
// Style resolution. Each field walks a fixed list and takes the first
// value present.
// -----------------------------------------------------------------------------

func resolveStyle(tr *plotlyTrace, l *plotlyLayout, c *plotlyConfig) (models.MRenderStyle, error) {
	if l == nil {
		l = &plotlyLayout{}
	}
	if c == nil {
		c = &plotlyConfig{}
	}
	font := l.Font
	if font == nil {
		font = &plotlyFont{}
	}
	xaxis, yaxis := l.XAxis, l.YAxis
	if xaxis == nil {
		xaxis = &plotlyAxis{}
	}
	if yaxis == nil {
		yaxis = &plotlyAxis{}
	}
	anim := c.Animation
	if anim == nil {
		anim = &plotlyAnimation{}
	}

	s := models.DefaultRenderStyle()

	s.Bullish = models.MColor(firstString(string(s.Bullish), fillColor(tr.Increasing), lineColor(tr.Increasing), c.BullishColor, c.IncreasingColor))
	s.Bearish = models.MColor(firstString(string(s.Bearish), fillColor(tr.Decreasing), lineColor(tr.Decreasing), c.BearishColor, c.DecreasingColor))
	s.Background = models.MColor(firstString(string(s.Background), c.BackgroundColor, l.PlotBGColor, l.PaperBGColor))
	s.Grid = models.MColor(firstString(string(s.Grid), c.GridColor, yaxis.GridColor, xaxis.GridColor))
	s.Text = models.MColor(firstString(string(s.Text), c.TextColor, font.Color))

	s.FontSize = firstFloat(s.FontSize, c.FontSize, font.Size)
	s.CandleWidth = firstFloat(s.CandleWidth, c.CandleWidth, c.BarWidth)
	s.SpacingRatio = firstFloat(s.SpacingRatio, c.SpacingRatio, c.Spacing)
	s.Width = firstFloat(s.Width, l.Width)
	s.Height = firstFloat(s.Height, l.Height)

	s.HorizontalDivisions = firstInt(s.HorizontalDivisions, c.HorizontalDivisions, yaxis.NTicks)
	s.VerticalDivisions = firstInt(s.VerticalDivisions, c.VerticalDivisions, c.LabelCount, xaxis.NTicks)
	s.PriceDecimals = firstInt(s.PriceDecimals, c.Decimals, tickDecimals(yaxis.TickFormat))

	if c.DateFormat != nil {
		s.DateLayout = *c.DateFormat
	} else if xaxis.TickFormat != nil {
		layout, err := StrftimeToLayout(*xaxis.TickFormat)
		if err != nil {
			return s, helpers.NewValidationError("layout.xaxis.tickformat: %v", err)
		}
		s.DateLayout = layout
	}

	if ms := firstFloatPtr(c.AnimationDuration, anim.Duration); ms != nil {
		s.AnimationDuration = time.Duration(*ms * float64(time.Millisecond))
	}
	s.AnimationCurve = firstString(s.AnimationCurve, c.AnimationCurve, anim.Curve)

	return s, ValidateStyle(s)
}

// ValidateStyle rejects style values the engine cannot render.
func ValidateStyle(s models.MRenderStyle) error {
	switch {
	case s.CandleWidth < 0:
		return helpers.NewValidationError("candle width must not be negative, got %v", s.CandleWidth)
	case s.SpacingRatio < 0:
		return helpers.NewValidationError("spacing ratio must not be negative, got %v", s.SpacingRatio)
	case s.HorizontalDivisions < 0 || s.VerticalDivisions < 0:
		return helpers.NewValidationError("divisions must not be negative")
	case s.PriceDecimals < 0 || s.PriceDecimals > 10:
		return helpers.NewValidationError("decimals must be within 0..10, got %d", s.PriceDecimals)
	case s.Width <= 0 || s.Height <= 0:
		return helpers.NewValidationError("width and height must be positive")
	case s.AnimationDuration < 0:
		return helpers.NewValidationError("animation duration must not be negative")
	case !animation.Known(s.AnimationCurve):
		return helpers.NewValidationError("unknown animation curve %q", s.AnimationCurve)
	}
	return nil
}

func fillColor(d *plotlyDirection) *string {
	if d == nil {
		return nil
	}
	return d.FillColor
}

func lineColor(d *plotlyDirection) *string {
	if d == nil || d.Line == nil {
		return nil
	}
	return d.Line.Color
}

func tickDecimals(format *string) *int {
	if format == nil {
		return nil
	}
	m := fixedTickRegex.FindStringSubmatch(*format)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func firstString(def string, values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return def
}

func firstFloat(def float64, values ...*float64) float64 {
	if v := firstFloatPtr(values...); v != nil {
		return *v
	}
	return def
}

func firstFloatPtr(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstInt(def int, values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return def
}

// -----------------------------------------------------------------------------

var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'Z': "MST",
	'%': "%",
}

// StrftimeToLayout converts the d3/strftime subset Plotly uses for
// tickformat into a Go time layout.
func StrftimeToLayout(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			b.WriteByte(format[i])
			continue
		}
		if i+1 >= len(format) {
			return "", fmt.Errorf("dangling %% in %q", format)
		}
		i++
		layout, ok := strftimeDirectives[format[i]]
		if !ok {
			return "", fmt.Errorf("unsupported directive %%%c", format[i])
		}
		b.WriteString(layout)
	}
	return b.String(), nil
}
