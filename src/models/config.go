package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	GrpcHost   string            `yaml:"grpc_host"`
	GrpcPort   int               `yaml:"grpc_port"`
	Storage    MStorageConfig    `yaml:"storage"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Timeframes []string          `yaml:"timeframes"`
	Render     MRenderStyle      `yaml:"render"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Proxies            []string `yaml:"proxies"`
	RequestTimeout     int      `yaml:"timeout"`
	MaxRetries         int      `yaml:"retries"`
	ConcurrentRequests int      `yaml:"concurrent_requests"`
	UserAgent          string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	DataRetentionDays     int             `yaml:"data_retention_days"`
	UpdateIntervalSeconds int             `yaml:"update_interval_seconds"`
	MaxCandles            int             `yaml:"max_candles"`
	MaxMemoryMB           int             `yaml:"max_memory_mb"`
	Sources               []MSourceConfig `yaml:"sources"`
}

type MSourceConfig struct {
	Name     string   `yaml:"name"`
	Symbols  []string `yaml:"symbols"`
	Interval string   `yaml:"interval"`
	Range    string   `yaml:"range"`
	APIKey   string   `yaml:"api_key"` // Optional
}
