package configs

// Config holds all configuration for one analyzer run.
type Config struct {
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Report  ReportConfig  `mapstructure:"report" validate:"required"`
	Source  SourceConfig  `mapstructure:"source" validate:"required"`
	Parsing ParsingConfig `mapstructure:"parsing" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
	File  string `mapstructure:"file"` // appended to when set, stderr otherwise
}

// ReportConfig holds report configuration.
type ReportConfig struct {
	Size         int    `mapstructure:"size" validate:"required,min=1"`
	Dir          string `mapstructure:"dir" validate:"required"`
	TemplatePath string `mapstructure:"template_path" validate:"required"`
}

// SourceConfig holds the location of the access logs.
type SourceConfig struct {
	LogDir string `mapstructure:"log_dir" validate:"required"`
}

// ParsingConfig holds the parse error circuit breaker and line parser settings.
type ParsingConfig struct {
	ErrorThreshold float64 `mapstructure:"error_threshold" validate:"gt=0,lte=1"`
	MinEntries     int     `mapstructure:"min_entries" validate:"min=0"`
	MethodOffset   int     `mapstructure:"method_offset" validate:"min=0"`
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}
