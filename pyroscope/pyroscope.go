package pyroscope

import (
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"
)

// Run starts continuous profiling against the configured server. Call
// only when cfg.Enabled().
func Run(config Config) error {
	runtime.SetMutexProfileFraction(config.MutexProfileFraction)
	runtime.SetBlockProfileRate(config.BlockProfileRate)

	applicationName := config.ApplicationName
	if applicationName == "" {
		applicationName = DEFAULT_APPLICATION_NAME
	}

	pyroscopeConfig := pyroscope.Config{
		ApplicationName: applicationName,
		ServerAddress:   config.ServerAddress,
		Tags:            map[string]string{"hostname": os.Getenv("HOSTNAME")},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,

			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockCount,
			pyroscope.ProfileBlockDuration,
		},
	}

	if config.ApiKey != "" {
		pyroscopeConfig.AuthToken = config.ApiKey
	}

	_, err := pyroscope.Start(pyroscopeConfig)
	return err
}
