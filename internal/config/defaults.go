package config

const (
	defaultConfigPath        = "~/.config/fcsmerge/config.toml"
	defaultStateDir          = "~/.local/share/fcsmerge"
	defaultLogDir            = "~/.local/share/fcsmerge/logs"
	defaultLogRetentionDays  = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultPattern           = "*.fcs"
	defaultSuffix            = "_concat.fcs"
	defaultTimestampFormat   = "2006-01-02_15-04"
	defaultStalePartialHours = 24
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Discovery: Discovery{
			Pattern: defaultPattern,
		},
		Output: Output{
			Suffix:          defaultSuffix,
			TimestampFormat: defaultTimestampFormat,
		},
		Concat: Concat{
			StalePartialHours: defaultStalePartialHours,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
