package config

const (
	defaultStateDir         = "~/.local/share/cadence/state"
	defaultLogDir           = "~/.local/share/cadence/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultVideoConcurrency = 2
	defaultVideoTimeout     = 30
	defaultAudioTimeout     = 120
)

func defaultSampleFractions() []float64 {
	return []float64{0.2, 0.5, 0.8}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Analysis: Analysis{
			VideoConcurrency: defaultVideoConcurrency,
			VideoTimeout:     defaultVideoTimeout,
			AudioTimeout:     defaultAudioTimeout,
			SampleFractions:  defaultSampleFractions(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
