package models

// DrawKind is the primitive a command draws.
type DrawKind string

const (
	DrawRect DrawKind = "rect"
	DrawLine DrawKind = "line"
	DrawText DrawKind = "text"
)

// DrawLayer groups commands; layers are emitted back to front.
type DrawLayer string

const (
	LayerBackground DrawLayer = "background"
	LayerPriceGrid  DrawLayer = "price_grid"
	LayerDateGrid   DrawLayer = "date_grid"
	LayerCandles    DrawLayer = "candles"
	LayerAxisLabels DrawLayer = "axis_labels"
	LayerHover      DrawLayer = "hover"
	LayerTooltip    DrawLayer = "tooltip"
)

// TextAlign anchors a text run horizontally at X.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// -----------------------------------------------------------------------------

// MDrawCommand is one primitive for a host 2D surface.
// Rect uses X,Y,W,H; line uses X,Y -> X2,Y2; text uses X,Y (baseline) and Text.
type MDrawCommand struct {
	Kind        DrawKind  `json:"kind"`
	Layer       DrawLayer `json:"layer"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	W           float64   `json:"w,omitempty"`
	H           float64   `json:"h,omitempty"`
	X2          float64   `json:"x2,omitempty"`
	Y2          float64   `json:"y2,omitempty"`
	Color       MColor    `json:"color"`
	StrokeWidth float64   `json:"stroke_width,omitempty"`
	Fill        bool      `json:"fill,omitempty"`
	Text        string    `json:"text,omitempty"`
	FontSize    float64   `json:"font_size,omitempty"`
	Align       TextAlign `json:"align,omitempty"`
}
