package server

import (
	"sync"
	"time"

	"candle-chart/src/animation"
	"candle-chart/src/chart"
	"candle-chart/src/helpers"
	"candle-chart/src/models"

	"github.com/google/uuid"
)

// seriesSource is what a session needs from the server to render.
type seriesSource interface {
	ResolveInterval(symbol, interval string) (string, error)
	Series(symbol, interval, timeframe string) (models.MSeries, error)
}

// -----------------------------------------------------------------------------
// Session is one client's chart viewport. The engine is stateless, so all
// per-client state (scroll, zoom, pointer, animation) lives here.
// -----------------------------------------------------------------------------

type Session struct {
	ID        string
	Symbol    string
	Interval  string
	Timeframe string
	Style     models.MRenderStyle
	Scroll    float64
	Pointer   *models.MPoint

	follow   bool
	animator *animation.Animator
	last     *models.MFrameInput
	now      func() time.Time
	mu       sync.Mutex
}

// -----------------------------------------------------------------------------

func NewSession(style models.MRenderStyle) *Session {
	return &Session{
		ID:    uuid.NewString(),
		Style: style,
		now:   time.Now,
	}
}

// Watches reports whether updates to symbol/interval affect this session.
func (s *Session) Watches(symbol, interval string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Symbol != "" && s.Symbol == symbol && s.Interval == interval
}

// Invalidate forces the next render to be sent.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Handle applies cmd and renders the resulting frame. A nil message means
// the frame is identical to the last one sent.
func (s *Session) Handle(cmd models.MSessionCommand, src seriesSource) (*models.MFrameMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cmd.Command == models.CmdSubscribe {
		return s.subscribe(cmd, src)
	}
	if s.Symbol == "" {
		return nil, helpers.NewValidationError("%s before subscribe", cmd.Command)
	}

	series, err := src.Series(s.Symbol, s.Interval, s.Timeframe)
	if err != nil {
		return nil, err
	}
	n := series.Len()
	style := &s.Style

	switch cmd.Command {
	case models.CmdScroll:
		s.Scroll = chart.ClampScrollOffset(s.currentScroll(series)+cmd.Delta, n, style.CandleWidth, style.SpacingRatio, style.ChartWidth())
		s.follow = s.atLatest(n)

	case models.CmdZoom:
		if cmd.Scale <= 0 {
			return nil, helpers.NewValidationError("zoom scale must be positive, got %v", cmd.Scale)
		}
		width, scroll := chart.ZoomAt(style.CandleWidth, style.SpacingRatio, s.currentScroll(series), cmd.FocalX, cmd.Scale, style.MinCandleWidth, style.MaxCandleWidth)
		style.CandleWidth = width
		s.Scroll = chart.ClampScrollOffset(scroll, n, width, style.SpacingRatio, style.ChartWidth())
		s.follow = s.atLatest(n)

	case models.CmdHover:
		s.Pointer = &models.MPoint{X: cmd.PointerX, Y: cmd.PointerY}

	case models.CmdLeave:
		s.Pointer = nil

	case models.CmdResize:
		if cmd.Width <= 0 || cmd.Height <= 0 {
			return nil, helpers.NewValidationError("resize needs a positive width and height")
		}
		style.Width = cmd.Width
		style.Height = cmd.Height

	case models.CmdTick:

	default:
		return nil, helpers.NewValidationError("unknown command %q", cmd.Command)
	}

	return s.render(series), nil
}

// Refresh re-renders after the underlying series changed.
func (s *Session) Refresh(src seriesSource) (*models.MFrameMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Symbol == "" {
		return nil, nil
	}
	series, err := src.Series(s.Symbol, s.Interval, s.Timeframe)
	if err != nil {
		return nil, err
	}
	return s.render(series), nil
}

// -----------------------------------------------------------------------------

func (s *Session) subscribe(cmd models.MSessionCommand, src seriesSource) (*models.MFrameMessage, error) {
	if cmd.Symbol == "" {
		return nil, helpers.NewValidationError("subscribe needs a symbol")
	}
	interval, err := src.ResolveInterval(cmd.Symbol, cmd.Interval)
	if err != nil {
		return nil, err
	}
	series, err := src.Series(cmd.Symbol, interval, cmd.Timeframe)
	if err != nil {
		return nil, err
	}

	s.Symbol = cmd.Symbol
	s.Interval = interval
	s.Timeframe = cmd.Timeframe
	s.Pointer = nil
	s.follow = true
	s.last = nil
	s.animator = animation.NewAnimator(s.now(), s.Style.AnimationDuration, s.Style.AnimationCurve)

	return s.render(series), nil
}

func (s *Session) currentScroll(series models.MSeries) float64 {
	if s.follow {
		return chart.LatestScrollOffset(series.Len(), s.Style.CandleWidth, s.Style.SpacingRatio, s.Style.ChartWidth())
	}
	return s.Scroll
}

func (s *Session) atLatest(n int) bool {
	return s.Scroll >= chart.MaxScrollOffset(n, s.Style.CandleWidth, s.Style.SpacingRatio, s.Style.ChartWidth())
}

func (s *Session) render(series models.MSeries) *models.MFrameMessage {
	in := models.MFrameInput{
		Series:       series,
		Style:        s.Style,
		ScrollOffset: s.currentScroll(series),
		Progress:     s.animator.Value(s.now()),
	}
	if s.Pointer != nil {
		p := *s.Pointer
		in.Pointer = &p
	}

	if s.last != nil && !chart.ShouldRepaint(*s.last, in) {
		return nil
	}

	frame, commands := chart.RenderFrame(in)
	s.Scroll = frame.Viewport.ScrollOffset
	s.last = &in

	return &models.MFrameMessage{
		Type:      models.MsgFrame,
		SessionID: s.ID,
		Symbol:    series.Symbol,
		Interval:  series.Interval,
		Version:   series.Version,
		Frame:     frame,
		Commands:  commands,
	}
}
