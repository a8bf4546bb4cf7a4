package models

import "time"

// MColor is a CSS color string ("#26a69a", "rgba(0,0,0,0.5)", ...).
type MColor string

// -----------------------------------------------------------------------------

// MRenderStyle is the read-only configuration bundle for a chart.
// It only holds comparable fields so two styles can be compared with ==.
type MRenderStyle struct {
	Width         float64 `yaml:"width" json:"width"`
	Height        float64 `yaml:"height" json:"height"`
	PaddingTop    float64 `yaml:"padding_top" json:"padding_top"`
	PaddingRight  float64 `yaml:"padding_right" json:"padding_right"`
	PaddingBottom float64 `yaml:"padding_bottom" json:"padding_bottom"`
	PaddingLeft   float64 `yaml:"padding_left" json:"padding_left"`

	CandleWidth    float64 `yaml:"candle_width" json:"candle_width"`
	SpacingRatio   float64 `yaml:"spacing_ratio" json:"spacing_ratio"`
	MinCandleWidth float64 `yaml:"min_candle_width" json:"min_candle_width"`
	MaxCandleWidth float64 `yaml:"max_candle_width" json:"max_candle_width"`
	MinBodyHeight  float64 `yaml:"min_body_height" json:"min_body_height"`

	Background        MColor `yaml:"background" json:"background"`
	Bullish           MColor `yaml:"bullish" json:"bullish"`
	Bearish           MColor `yaml:"bearish" json:"bearish"`
	Grid              MColor `yaml:"grid" json:"grid"`
	Text              MColor `yaml:"text" json:"text"`
	HoverLine         MColor `yaml:"hover_line" json:"hover_line"`
	TooltipBackground MColor `yaml:"tooltip_background" json:"tooltip_background"`
	TooltipText       MColor `yaml:"tooltip_text" json:"tooltip_text"`

	HorizontalDivisions int `yaml:"horizontal_divisions" json:"horizontal_divisions"`
	VerticalDivisions   int `yaml:"vertical_divisions" json:"vertical_divisions"`

	PriceDecimals int     `yaml:"price_decimals" json:"price_decimals"`
	DateLayout    string  `yaml:"date_layout" json:"date_layout"`
	FontSize      float64 `yaml:"font_size" json:"font_size"`

	TooltipPadding float64 `yaml:"tooltip_padding" json:"tooltip_padding"`
	TooltipOffsetX float64 `yaml:"tooltip_offset_x" json:"tooltip_offset_x"`
	TooltipOffsetY float64 `yaml:"tooltip_offset_y" json:"tooltip_offset_y"`
	ClampTooltip   bool    `yaml:"clamp_tooltip" json:"clamp_tooltip"`

	AnimationDuration time.Duration `yaml:"animation_duration" json:"animation_duration"`
	AnimationCurve    string        `yaml:"animation_curve" json:"animation_curve"`
}

// -----------------------------------------------------------------------------

// DefaultRenderStyle returns the style used when nothing overrides it.
func DefaultRenderStyle() MRenderStyle {
	return MRenderStyle{
		Width:         800,
		Height:        400,
		PaddingTop:    10,
		PaddingRight:  60,
		PaddingBottom: 24,
		PaddingLeft:   10,

		CandleWidth:    8,
		SpacingRatio:   0.2,
		MinCandleWidth: 2,
		MaxCandleWidth: 40,
		MinBodyHeight:  1,

		Background:        "#ffffff",
		Bullish:           "#26a69a",
		Bearish:           "#ef5350",
		Grid:              "#e0e0e0",
		Text:              "#424242",
		HoverLine:         "#9e9e9e",
		TooltipBackground: "rgba(33,33,33,0.85)",
		TooltipText:       "#ffffff",

		HorizontalDivisions: 5,
		VerticalDivisions:   6,

		PriceDecimals: 2,
		DateLayout:    "2006-01-02",
		FontSize:      10,

		TooltipPadding: 6,
		TooltipOffsetX: 12,
		TooltipOffsetY: 12,
		ClampTooltip:   true,

		AnimationDuration: time.Second,
		AnimationCurve:    "easeOut",
	}
}

// -----------------------------------------------------------------------------

// ChartLeft is the x of the plot area's left edge.
func (s MRenderStyle) ChartLeft() float64 { return s.PaddingLeft }

// ChartTop is the y of the plot area's top edge.
func (s MRenderStyle) ChartTop() float64 { return s.PaddingTop }

// ChartWidth is the plot area width, which is also the viewport width.
func (s MRenderStyle) ChartWidth() float64 {
	w := s.Width - s.PaddingLeft - s.PaddingRight
	if w < 0 {
		return 0
	}
	return w
}

// ChartHeight is the plot area height.
func (s MRenderStyle) ChartHeight() float64 {
	h := s.Height - s.PaddingTop - s.PaddingBottom
	if h < 0 {
		return 0
	}
	return h
}
