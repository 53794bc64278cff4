package constants

// Viper configuration keys.
const (
	ViperHTTPAddr        = "http.addr"
	ViperDatabaseDSN     = "database.dsn"
	ViperSecretKey       = "auth.secret"
	ViperTokenTTL        = "auth.token_ttl"
	ViperModelPath       = "forecast.model_path"
	ViperMaxHorizonDays  = "forecast.max_horizon_days"
	ViperLookbackDays    = "forecast.lookback_days"
	ViperChartCacheTTL   = "charts.cache_ttl"
	ViperCORSOrigins     = "http.cors_origins"
	ViperLogLevel        = "log.level"
	ViperShutdownTimeout = "http.shutdown_timeout"
)

// Cookie and echo-context keys.
const (
	CookieKeyAuthToken = "enertrack_auth"
	CtxKeyUserID       = "user_id"
	CtxKeyRequestID    = "request_id"
)
