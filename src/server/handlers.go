package server

import (
	"net/http"

	"candle-chart/src/adapter"
	"candle-chart/src/chart"
	"candle-chart/src/helpers"
	"candle-chart/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *ChartServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.SessionCount(),
		"series":   s.Store.Count(),
	})
}

// -----------------------------------------------------------------------------

func (s *ChartServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timeframes": s.Timeframes.Names,
		"style":      s.Config.Render,
	})
}

// -----------------------------------------------------------------------------

func (s *ChartServer) listSeries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"series": s.ListSeries()})
}

// -----------------------------------------------------------------------------

func (s *ChartServer) getFrame(c *gin.Context) {
	series, err := s.requestedSeries(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	in, err := frameInput(c, series, s.Config.Render)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, frameMessage(in))
}

// -----------------------------------------------------------------------------

func (s *ChartServer) exportSeries(c *gin.Context) {
	series, err := s.requestedSeries(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	data, err := adapter.EncodeSeries(series, s.Config.Render)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// -----------------------------------------------------------------------------

func (s *ChartServer) importSeries(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.writeError(c, helpers.NewValidationError("cannot read body: %v", err))
		return
	}
	series, err := s.ImportSeries(c.Param("symbol"), c.Query("interval"), body)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":   series.Symbol,
		"interval": series.Interval,
		"version":  series.Version,
		"count":    series.Len(),
	})
}

// -----------------------------------------------------------------------------

func (s *ChartServer) deleteSeries(c *gin.Context) {
	n, err := s.DeleteSeries(c.Param("symbol"), c.Query("interval"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// -----------------------------------------------------------------------------

// renderDocument renders the first trace of a posted Plotly document
// without storing it.
func (s *ChartServer) renderDocument(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.writeError(c, helpers.NewValidationError("cannot read body: %v", err))
		return
	}
	doc, err := adapter.ParseDocument(body)
	if err != nil {
		s.writeError(c, err)
		return
	}
	in, err := frameInput(c, doc.Series[0], doc.Style)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, frameMessage(in))
}

// -----------------------------------------------------------------------------
// Helper Methods
// -----------------------------------------------------------------------------

func (s *ChartServer) requestedSeries(c *gin.Context) (models.MSeries, error) {
	symbol := c.Param("symbol")
	interval, err := s.ResolveInterval(symbol, c.Query("interval"))
	if err != nil {
		return models.MSeries{}, err
	}
	return s.Series(symbol, interval, c.Query("timeframe"))
}

func (s *ChartServer) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case helpers.IsValidation(err):
		status = http.StatusBadRequest
	case helpers.IsNotFound(err):
		status = http.StatusNotFound
	default:
		s.Logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func frameMessage(in models.MFrameInput) models.MFrameMessage {
	frame, commands := chart.RenderFrame(in)
	return models.MFrameMessage{
		Type:     models.MsgFrame,
		Symbol:   in.Series.Symbol,
		Interval: in.Series.Interval,
		Version:  in.Series.Version,
		Frame:    frame,
		Commands: commands,
	}
}
