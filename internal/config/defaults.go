package config

const (
	defaultConfigPath           = "~/.config/braindump/config.toml"
	defaultServerBaseURL        = "https://usebraindump.com"
	defaultServerTimeoutSeconds = 60
	defaultServerUserAgent      = "braindump-go/0.1.0"
	defaultSessionPath          = "~/.local/share/braindump/session.json"
	defaultHistoryPath          = "~/.local/share/braindump/history.db"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 14
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			BaseURL:        defaultServerBaseURL,
			TimeoutSeconds: defaultServerTimeoutSeconds,
			UserAgent:      defaultServerUserAgent,
		},
		Session: Session{
			Path: defaultSessionPath,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
