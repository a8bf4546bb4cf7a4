package adapter

// Plotly document shapes. Pointer fields distinguish "absent" from zero so
// the fallback chains can skip missing values. The same types are used to
// encode exports.

type plotlyDocument struct {
	Data   []plotlyTrace `json:"data"`
	Layout *plotlyLayout `json:"layout,omitempty"`
	Config *plotlyConfig `json:"config,omitempty"`
}

type plotlyTrace struct {
	Type       string           `json:"type,omitempty"`
	Name       string           `json:"name,omitempty"`
	X          []interface{}    `json:"x"`
	Open       []float64        `json:"open"`
	High       []float64        `json:"high"`
	Low        []float64        `json:"low"`
	Close      []float64        `json:"close"`
	Volume     []float64        `json:"volume,omitempty"`
	Increasing *plotlyDirection `json:"increasing,omitempty"`
	Decreasing *plotlyDirection `json:"decreasing,omitempty"`
}

type plotlyDirection struct {
	FillColor *string     `json:"fillcolor,omitempty"`
	Line      *plotlyLine `json:"line,omitempty"`
}

type plotlyLine struct {
	Color *string `json:"color,omitempty"`
}

type plotlyFont struct {
	Color *string  `json:"color,omitempty"`
	Size  *float64 `json:"size,omitempty"`
}

type plotlyAxis struct {
	GridColor  *string `json:"gridcolor,omitempty"`
	NTicks     *int    `json:"nticks,omitempty"`
	TickFormat *string `json:"tickformat,omitempty"`
}

type plotlyLayout struct {
	Title        interface{} `json:"title,omitempty"`
	Width        *float64    `json:"width,omitempty"`
	Height       *float64    `json:"height,omitempty"`
	PlotBGColor  *string     `json:"plot_bgcolor,omitempty"`
	PaperBGColor *string     `json:"paper_bgcolor,omitempty"`
	Font         *plotlyFont `json:"font,omitempty"`
	XAxis        *plotlyAxis `json:"xaxis,omitempty"`
	YAxis        *plotlyAxis `json:"yaxis,omitempty"`
}

type plotlyAnimation struct {
	Duration *float64 `json:"duration,omitempty"`
	Curve    *string  `json:"curve,omitempty"`
}

type plotlyConfig struct {
	Symbol   *string `json:"symbol,omitempty"`
	Interval *string `json:"interval,omitempty"`

	BullishColor    *string `json:"bullishColor,omitempty"`
	IncreasingColor *string `json:"increasingColor,omitempty"`
	BearishColor    *string `json:"bearishColor,omitempty"`
	DecreasingColor *string `json:"decreasingColor,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	GridColor       *string `json:"gridColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`

	FontSize     *float64 `json:"fontSize,omitempty"`
	CandleWidth  *float64 `json:"candleWidth,omitempty"`
	BarWidth     *float64 `json:"barWidth,omitempty"`
	SpacingRatio *float64 `json:"spacingRatio,omitempty"`
	Spacing      *float64 `json:"spacing,omitempty"`

	HorizontalDivisions *int `json:"horizontalDivisions,omitempty"`
	VerticalDivisions   *int `json:"verticalDivisions,omitempty"`
	LabelCount          *int `json:"labelCount,omitempty"`
	Decimals            *int `json:"decimals,omitempty"`

	DateFormat        *string          `json:"dateFormat,omitempty"`
	AnimationDuration *float64         `json:"animationDuration,omitempty"`
	AnimationCurve    *string          `json:"animationCurve,omitempty"`
	Animation         *plotlyAnimation `json:"animation,omitempty"`
}
