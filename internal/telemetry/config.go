package telemetry

import (
	"os"
)

const (
	envCalibration = "AGT_CALIBRATION_MODE"
	envObserve     = "AGT_OBSERVE_JSON"
	envPersist     = "AGT_PERSIST_API_PAYLOADS"
	envArtifacts   = "AGT_ARTIFACTS_DIR"

	defaultArtifactsDir = ".agent"
)

type settings struct {
	calibration bool
	observe     bool
	persist     bool
}

// Read once at process start. Mid-run environment changes only take effect
// when they switch a flag on (tests rely on this).
var startup = loadSettings(os.LookupEnv)

// loadSettings derives the flags from the environment. Calibration mode
// turns observe and payload persistence on unless they are set explicitly.
func loadSettings(lookup func(string) (string, bool)) settings {
	var s settings
	v, _ := lookup(envCalibration)
	s.calibration = v == "1"

	s.observe = s.calibration
	if v, ok := lookup(envObserve); ok {
		s.observe = v == "1"
	}
	s.persist = s.calibration
	if v, ok := lookup(envPersist); ok {
		s.persist = v == "1"
	}
	return s
}

func overridden(key string, fallback bool) bool {
	if os.Getenv(key) == "1" {
		return true
	}
	return fallback
}

// CalibrationModeEnabled reports whether calibration mode is on.
func CalibrationModeEnabled() bool { return overridden(envCalibration, startup.calibration) }

// ObserveEnabled reports whether JSONL event emission is on.
func ObserveEnabled() bool { return overridden(envObserve, startup.observe) }

// PersistPayloadsEnabled reports whether gateway request/response payloads are written to disk.
func PersistPayloadsEnabled() bool { return overridden(envPersist, startup.persist) }

// ArtifactsDir is where events and payloads are written (default .agent).
func ArtifactsDir() string {
	if d := os.Getenv(envArtifacts); d != "" {
		return d
	}
	return defaultArtifactsDir
}
