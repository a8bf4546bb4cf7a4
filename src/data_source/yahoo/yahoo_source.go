package yahoo

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"candle-chart/src/helpers"
	"candle-chart/src/interfaces"
	"candle-chart/src/logger"
	"candle-chart/src/models"

	"github.com/goccy/go-json"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

type YahooFinanceSource struct {
	SourceConfig models.MSourceConfig
	BaseURL      string
	Network      interfaces.INetworkManager
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(sourceCfg models.MSourceConfig, netMgr interfaces.INetworkManager) *YahooFinanceSource {
	return &YahooFinanceSource{
		SourceConfig: sourceCfg,
		BaseURL:      DefaultBaseURL,
		Network:      netMgr,
		Logger:       logger.NewLogger(nil, "YahooFinanceSource-"+sourceCfg.Name),
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// FetchSeries downloads one symbol's candles from the chart endpoint.
func (s *YahooFinanceSource) FetchSeries(ctx context.Context, symbol, interval, rangeSpec string) (models.MSeries, error) {
	if interval == "" {
		interval = s.SourceConfig.Interval
	}
	if rangeSpec == "" {
		rangeSpec = s.SourceConfig.Range
	}
	params := map[string]string{
		"interval":       interval,
		"includePrePost": "false",
	}
	if rangeSpec != "" {
		params["range"] = rangeSpec
	}

	body, err := s.Network.Get(ctx, s.BaseURL+url.PathEscape(symbol), params)
	if err != nil {
		return models.MSeries{}, helpers.WrapDataSourceError(err, "fetch %s", symbol)
	}

	series, err := ParseChartResponse(symbol, interval, body)
	if err != nil {
		return models.MSeries{}, err
	}
	if n := series.Len(); n > 0 {
		s.Logger.Debug("Fetched %s: %d candles [%s -> %s]", symbol, n,
			series.Candles[0].Timestamp.Format(time.RFC3339), series.Candles[n-1].Timestamp.Format(time.RFC3339))
	}
	return series, nil
}

// -----------------------------------------------------------------------------

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				Currency             string `json:"currency"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				DataGranularity      string `json:"dataGranularity"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ParseChartResponse turns a v8 chart payload into a candle series. Rows
// with a null price are skipped, as are non-positive closes. Duplicate
// timestamps keep the last row.
func ParseChartResponse(symbol, interval string, data []byte) (models.MSeries, error) {
	var resp chartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.MSeries{}, helpers.WrapDataSourceError(err, "decode chart for %s", symbol)
	}
	if e := resp.Chart.Error; e != nil {
		return models.MSeries{}, helpers.WrapDataSourceError(nil, "yahoo api error for %s: %s - %s", symbol, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return models.MSeries{}, helpers.NewNotFoundError("no chart result for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if interval == "" {
		interval = result.Meta.DataGranularity
	}
	series := models.MSeries{Symbol: symbol, Interval: interval, Candles: []models.MCandle{}}
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return series, nil
	}

	q := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(q.Open) != n || len(q.High) != n || len(q.Low) != n || len(q.Close) != n {
		return models.MSeries{}, helpers.WrapDataSourceError(nil, "data alignment error for %s: %d timestamps", symbol, n)
	}

	byTime := make(map[int64]models.MCandle, n)
	for i, ts := range result.Timestamp {
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue
		}
		c := models.MCandle{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *q.Open[i],
			High:      *q.High[i],
			Low:       *q.Low[i],
			Close:     *q.Close[i],
		}
		if c.Close <= 0 {
			continue
		}
		if i < len(q.Volume) && q.Volume[i] != nil && *q.Volume[i] >= 0 {
			c.Volume = *q.Volume[i]
			c.HasVolume = true
		}
		byTime[ts] = c
	}

	for _, c := range byTime {
		series.Candles = append(series.Candles, c)
	}
	sort.Slice(series.Candles, func(i, j int) bool {
		return series.Candles[i].Timestamp.Before(series.Candles[j].Timestamp)
	})
	return series, nil
}

// NormalizeSymbol upper-cases a ticker and strips whitespace.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
