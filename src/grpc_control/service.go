package grpc_control

import (
	"context"
	"time"

	"candle-chart/src/config"
	"candle-chart/src/data_source/yahoo"
	"candle-chart/src/helpers"
	"candle-chart/src/interfaces"
	"candle-chart/src/logger"
	"candle-chart/src/models"

	"github.com/goccy/go-json"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ ChartControlServer = (*ControlService)(nil)

// ControlService implements ChartControlServer
type ControlService struct {
	Config     *config.Config
	ConfigPath string
	Series     interfaces.ISeriesService
	Refresher  interfaces.IRefresher
	Logger     *logger.Logger
	started    time.Time
}

// NewControlService creates a new instance of ControlService. refresher may
// be nil when no data source is configured.
func NewControlService(
	cfg *config.Config,
	cfgPath string,
	series interfaces.ISeriesService,
	refresher interfaces.IRefresher,
	log *logger.Logger,
) *ControlService {
	if log == nil {
		log = logger.NewLogger(nil, "ControlService")
	}
	return &ControlService{
		Config:     cfg,
		ConfigPath: cfgPath,
		Series:     series,
		Refresher:  refresher,
		Logger:     log,
		started:    time.Now(),
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) ListSeries(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	infos := s.Series.ListSeries()
	list := make([]interface{}, 0, len(infos))
	for _, info := range infos {
		list = append(list, seriesInfoMap(info))
	}
	return newStruct(map[string]interface{}{"series": list})
}

// -----------------------------------------------------------------------------

// ImportSeries expects {symbol, interval, document}, where document is the
// Plotly figure as a JSON string or as a nested object.
func (s *ControlService) ImportSeries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	doc, ok := fields["document"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "document is required")
	}

	var data []byte
	switch v := doc.GetKind().(type) {
	case *structpb.Value_StringValue:
		data = []byte(v.StringValue)
	case *structpb.Value_StructValue:
		raw, err := json.Marshal(v.StructValue.AsMap())
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "document: %v", err)
		}
		data = raw
	default:
		return nil, status.Error(codes.InvalidArgument, "document must be a JSON string or an object")
	}

	series, err := s.Series.ImportSeries(stringField(req, "symbol"), stringField(req, "interval"), data)
	if err != nil {
		return nil, toStatus(err)
	}
	s.Logger.Info("gRPC: imported %s/%s (%d candles)", series.Symbol, series.Interval, series.Len())
	return newStruct(map[string]interface{}{
		"symbol":   series.Symbol,
		"interval": series.Interval,
		"version":  series.Version,
		"count":    series.Len(),
	})
}

// -----------------------------------------------------------------------------

func (s *ControlService) DeleteSeries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	symbol := stringField(req, "symbol")
	if symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}
	n, err := s.Series.DeleteSeries(symbol, stringField(req, "interval"))
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]interface{}{"deleted": n})
}

// -----------------------------------------------------------------------------

// RefreshSymbol fetches {symbol} from the data source now. With track set
// the symbol is also added to the scheduled refreshes and the config file.
func (s *ControlService) RefreshSymbol(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.Refresher == nil {
		return nil, status.Error(codes.FailedPrecondition, "no data source configured")
	}
	symbol := yahoo.NormalizeSymbol(stringField(req, "symbol"))
	if symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}

	n, err := s.Refresher.RefreshSymbol(ctx, symbol)
	if err != nil {
		return nil, toStatus(err)
	}

	tracked := false
	if boolField(req, "track") {
		if source, added := s.Refresher.Track(symbol); added {
			tracked = true
			s.persistSymbol(source, symbol)
		}
	}

	s.Logger.Info("gRPC: refreshed %s (%d candles)", symbol, n)
	return newStruct(map[string]interface{}{
		"symbol":  symbol,
		"count":   n,
		"tracked": tracked,
	})
}

func (s *ControlService) persistSymbol(source, symbol string) {
	if s.Config == nil || !s.Config.AddSymbol(source, symbol, "") || s.ConfigPath == "" {
		return
	}
	if err := s.Config.Save(s.ConfigPath); err != nil {
		s.Logger.Error("gRPC: failed to save config: %v", err)
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	out := map[string]interface{}{
		"series":         len(s.Series.ListSeries()),
		"sessions":       s.Series.SessionCount(),
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"sources":        []interface{}{},
		"symbols":        []interface{}{},
	}
	if s.Refresher != nil {
		out["sources"] = stringList(s.Refresher.SourceNames())
		out["symbols"] = stringList(s.Refresher.Symbols())
		if last := s.Refresher.LastRun(); !last.IsZero() {
			out["last_refresh"] = last.UTC().Format(time.RFC3339)
		}
	}
	return newStruct(out)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// toStatus maps typed errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case helpers.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case helpers.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func newStruct(m map[string]interface{}) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return st, nil
}

func seriesInfoMap(info models.MSeriesInfo) map[string]interface{} {
	m := map[string]interface{}{
		"symbol":   info.Symbol,
		"interval": info.Interval,
		"count":    info.Count,
		"version":  info.Version,
	}
	if !info.First.IsZero() {
		m["first"] = info.First.UTC().Format(time.RFC3339)
		m["last"] = info.Last.UTC().Format(time.RFC3339)
	}
	return m
}

func stringField(st *structpb.Struct, name string) string {
	return st.GetFields()[name].GetStringValue()
}

func boolField(st *structpb.Struct, name string) bool {
	return st.GetFields()[name].GetBoolValue()
}

func stringList(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
