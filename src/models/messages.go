package models

// -----------------------------------------------------------------------------
// WebSocket session protocol
// -----------------------------------------------------------------------------

// Session commands sent by clients.
const (
	CmdSubscribe = "subscribe"
	CmdScroll    = "scroll"
	CmdZoom      = "zoom"
	CmdHover     = "hover"
	CmdLeave     = "leave"
	CmdResize    = "resize"
	CmdTick      = "tick"
)

// Server message types.
const (
	MsgFrame = "FRAME"
	MsgError = "ERROR"
)

// MSessionCommand is a client -> server message.
type MSessionCommand struct {
	Command   string  `json:"command"`
	Symbol    string  `json:"symbol,omitempty"`
	Interval  string  `json:"interval,omitempty"`
	Timeframe string  `json:"timeframe,omitempty"`
	Delta     float64 `json:"delta,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	FocalX    float64 `json:"focal_x,omitempty"`
	PointerX  float64 `json:"pointer_x,omitempty"`
	PointerY  float64 `json:"pointer_y,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
}

// -----------------------------------------------------------------------------

// MFrameMessage carries one rendered frame.
type MFrameMessage struct {
	Type      string         `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	Symbol    string         `json:"symbol"`
	Interval  string         `json:"interval"`
	Version   uint64         `json:"version"`
	Frame     MFrame         `json:"frame"`
	Commands  []MDrawCommand `json:"commands"`
}

// MErrorMessage reports a rejected command.
type MErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
