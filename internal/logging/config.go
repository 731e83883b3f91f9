package logging

// Config controls the zap logger component.
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
	Output string `yaml:"output"` // stdout, stderr, or a file path

	Rotate RotateConfig `yaml:"rotate"`
}

// RotateConfig enables lumberjack rotation when Output is a file path.
type RotateConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxAgeDays int  `yaml:"max_age_days"`
	MaxBackups int  `yaml:"max_backups"`
	Compress   bool `yaml:"compress"`
}
