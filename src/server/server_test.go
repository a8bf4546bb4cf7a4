package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"candle-chart/src/adapter"
	"candle-chart/src/models"
	"candle-chart/src/utils"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*ChartServer, *utils.SeriesStore) {
	t.Helper()
	cfg := &models.MConfig{
		Name:       "candle-chart",
		Host:       "127.0.0.1",
		Port:       8090,
		Timeframes: []string{"5m", "15m"},
		Render:     staticStyle(),
	}
	store := utils.NewSeriesStore(1000, 0)
	store.Replace(models.MSeries{Symbol: "AAPL", Interval: "5m", Candles: makeCandles(30)})

	s := NewChartServer(cfg, store, nil, nil)
	t.Cleanup(func() { s.Stop() })
	return s, store
}

func do(t *testing.T, s *ChartServer, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// -----------------------------------------------------------------------------

func TestHealthAndConfig(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
		Series   int    `json:"series"`
	}
	decode(t, w, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Sessions)
	assert.Equal(t, 1, health.Series)

	w = do(t, s, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cfg struct {
		Timeframes []string            `json:"timeframes"`
		Style      models.MRenderStyle `json:"style"`
	}
	decode(t, w, &cfg)
	assert.Equal(t, []string{"5m", "15m"}, cfg.Timeframes)
	assert.Equal(t, 800.0, cfg.Style.Width)
}

func TestListSeries(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/series", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Series []models.MSeriesInfo `json:"series"`
	}
	decode(t, w, &out)
	require.Len(t, out.Series, 1)
	assert.Equal(t, "AAPL", out.Series[0].Symbol)
	assert.Equal(t, 30, out.Series[0].Count)
}

func TestGetFrame(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/series/AAPL/frame", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var msg models.MFrameMessage
	decode(t, w, &msg)
	assert.Equal(t, models.MsgFrame, msg.Type)
	assert.Equal(t, "5m", msg.Interval)
	assert.Equal(t, 0, msg.Frame.Viewport.VisibleStart)
	assert.Equal(t, 30, msg.Frame.Viewport.VisibleEnd)
	assert.Equal(t, 1.0, msg.Frame.Progress)
	assert.Nil(t, msg.Frame.Hover)
	require.NotEmpty(t, msg.Commands)
	assert.Equal(t, models.LayerBackground, msg.Commands[0].Layer)

	w = do(t, s, http.MethodGet, "/api/series/AAPL/frame?pointer_x=14&pointer_y=100&progress=0.5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &msg)
	require.NotNil(t, msg.Frame.Hover)
	assert.Equal(t, 0, msg.Frame.Hover.Index)
	assert.Equal(t, 0.5, msg.Frame.Progress)

	w = do(t, s, http.MethodGet, "/api/series/AAPL/frame?timeframe=15m", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &msg)
	assert.Equal(t, "15m", msg.Interval)
	assert.Equal(t, 10, msg.Frame.Viewport.VisibleEnd)
}

func TestGetFrameErrors(t *testing.T) {
	s, _ := newTestServer(t)

	cases := map[string]int{
		"/api/series/MSFT/frame":                 http.StatusNotFound,
		"/api/series/AAPL/frame?interval=1h":     http.StatusNotFound,
		"/api/series/AAPL/frame?width=abc":       http.StatusBadRequest,
		"/api/series/AAPL/frame?width=-5":        http.StatusBadRequest,
		"/api/series/AAPL/frame?pointer_x=10":    http.StatusBadRequest,
		"/api/series/AAPL/frame?timeframe=7m":    http.StatusBadRequest,
		"/api/series/AAPL/frame?timeframe=bogus": http.StatusBadRequest,
	}
	for target, want := range cases {
		w := do(t, s, http.MethodGet, target, nil)
		assert.Equal(t, want, w.Code, target)
		assert.Contains(t, w.Body.String(), `"error"`, target)
	}
}

func TestImportExportDelete(t *testing.T) {
	s, store := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/series/AAPL/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := adapter.ParseDocument(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, doc.Series, 1)
	assert.Len(t, doc.Series[0].Candles, 30)

	exported := w.Body.Bytes()
	w = do(t, s, http.MethodPost, "/api/series/FAST/import?interval=500ms", exported)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, ok := store.Snapshot("FAST", "500ms")
	assert.False(t, ok)

	w = do(t, s, http.MethodPost, "/api/series/MSFT/import?interval=5m", exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var imported struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
		Version  uint64 `json:"version"`
		Count    int    `json:"count"`
	}
	decode(t, w, &imported)
	assert.Equal(t, "MSFT", imported.Symbol)
	assert.Equal(t, 30, imported.Count)

	snap, ok := store.Snapshot("MSFT", "5m")
	require.True(t, ok)
	assert.Equal(t, imported.Version, snap.Version)

	w = do(t, s, http.MethodPost, "/api/series/MSFT/import", []byte(`{"data": []}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodDelete, "/api/series/MSFT", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted": 1}`, w.Body.String())

	w = do(t, s, http.MethodDelete, "/api/series/MSFT", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRenderDocument(t *testing.T) {
	s, _ := newTestServer(t)

	body := []byte(`{"data": [{"type": "candlestick", "name": "X",
	  "x": ["2024-01-01", "2024-01-02"], "open": [1, 2], "high": [3, 4], "low": [0, 1], "close": [2, 3]}],
	  "layout": {"width": 400, "height": 300}}`)

	w := do(t, s, http.MethodPost, "/api/render?progress=1", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var msg models.MFrameMessage
	decode(t, w, &msg)
	assert.Equal(t, "X", msg.Symbol)
	assert.Equal(t, 2, msg.Frame.Viewport.VisibleEnd)
	assert.Equal(t, 400.0, msg.Commands[0].W)

	w = do(t, s, http.MethodPost, "/api/render", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/series", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://127.0.0.1:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

// -----------------------------------------------------------------------------
// WebSocket sessions
// -----------------------------------------------------------------------------

type wireMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Symbol    string `json:"symbol"`
	Version   uint64 `json:"version"`
	Message   string `json:"message"`
}

func dial(t *testing.T, s *ChartServer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, cmd models.MSessionCommand) {
	t.Helper()
	data, err := json.Marshal(cmd)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func receive(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg wireMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWebSocketSession(t *testing.T) {
	s, store := newTestServer(t)
	conn := dial(t, s)

	send(t, conn, models.MSessionCommand{Command: models.CmdSubscribe, Symbol: "AAPL"})
	first := receive(t, conn)
	assert.Equal(t, models.MsgFrame, first.Type)
	assert.NotEmpty(t, first.SessionID)
	assert.Eventually(t, func() bool { return s.SessionCount() == 1 }, time.Second, 10*time.Millisecond)

	// A repeated hover renders the same frame and is not sent, so the next
	// message is the error for the unknown command.
	hover := models.MSessionCommand{Command: models.CmdHover, PointerX: 14, PointerY: 100}
	send(t, conn, hover)
	assert.Equal(t, models.MsgFrame, receive(t, conn).Type)
	send(t, conn, hover)
	send(t, conn, models.MSessionCommand{Command: "wobble"})
	errMsg := receive(t, conn)
	assert.Equal(t, models.MsgError, errMsg.Type)
	assert.Contains(t, errMsg.Message, "wobble")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, models.MsgError, receive(t, conn).Type)

	// Store updates are pushed to subscribed sessions.
	last := makeCandles(31)[30]
	version, _ := store.Merge("AAPL", "5m", []models.MCandle{last})
	pushed := receive(t, conn)
	assert.Equal(t, models.MsgFrame, pushed.Type)
	assert.Equal(t, version, pushed.Version)
	assert.Equal(t, first.SessionID, pushed.SessionID)
}

func TestWebSocketCommandBeforeSubscribe(t *testing.T) {
	s, _ := newTestServer(t)
	conn := dial(t, s)

	send(t, conn, models.MSessionCommand{Command: models.CmdScroll, Delta: 5})
	msg := receive(t, conn)
	assert.Equal(t, models.MsgError, msg.Type)
	assert.Contains(t, msg.Message, "before subscribe")
}
