package config

const (
	defaultDataDir                = "~/.local/share/laneboard"
	defaultLogDir                 = "~/.local/share/laneboard/logs"
	defaultAPIBind                = "127.0.0.1:7490"
	defaultReadTimeoutSeconds     = 15
	defaultWriteTimeoutSeconds    = 30
	defaultShutdownTimeoutSeconds = 5
	defaultBusyTimeoutMillis      = 5000
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogRetentionDays       = 14
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		API: API{
			Bind:                   defaultAPIBind,
			ReadTimeoutSeconds:     defaultReadTimeoutSeconds,
			WriteTimeoutSeconds:    defaultWriteTimeoutSeconds,
			ShutdownTimeoutSeconds: defaultShutdownTimeoutSeconds,
		},
		Store: Store{
			BusyTimeoutMillis: defaultBusyTimeoutMillis,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
