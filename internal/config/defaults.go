package config

const (
	defaultConfigPath       = "~/.config/gallerist/config.toml"
	defaultBaseURL          = "http://127.0.0.1:8000"
	defaultListPath         = "/api/albums/liste/"
	defaultCreateClientPath = "/api/albums/create-client/"
	defaultConfirmCartPath  = "/api/albums/confirm-cart/"
	defaultRequestTimeout   = 30
	defaultRootTemplate     = "date/{dd}_{mm}_{yyyy}"
	defaultClientDepth      = 4
	defaultPollInterval     = 5
	defaultStateDir         = "~/.local/share/gallerist"
	defaultLogDir           = "~/.local/share/gallerist/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultNtfyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: Backend{
			BaseURL:          defaultBaseURL,
			ListPath:         defaultListPath,
			CreateClientPath: defaultCreateClientPath,
			ConfirmCartPath:  defaultConfirmCartPath,
			RequestTimeout:   defaultRequestTimeout,
		},
		Browse: Browse{
			RootTemplate: defaultRootTemplate,
			ClientDepth:  defaultClientDepth,
			PollInterval: defaultPollInterval,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
	}
}
