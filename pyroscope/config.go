package pyroscope

const DEFAULT_APPLICATION_NAME = "riverlabel"

type Config struct {
	ApplicationName      string `koanf:"application_name" json:"application_name"`
	ServerAddress        string `koanf:"server_address" json:"server_address"`
	ApiKey               string `koanf:"api_key" json:"-"`
	MutexProfileFraction int    `koanf:"mutex_profile_fraction" json:"mutex_profile_fraction"`
	BlockProfileRate     int    `koanf:"block_profile_rate" json:"block_profile_rate"`
}

// Enabled reports whether profiling should start at all. No server
// address means profiling stays off.
func (cfg *Config) Enabled() bool {
	return cfg.ServerAddress != ""
}

func GetDefaultConfig() Config {
	return Config{
		ApplicationName: DEFAULT_APPLICATION_NAME,
	}
}
