package project

import (
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// Environment variables that override the stored configuration.
const (
	EnvGridStep     = "LOADPLAN_GRID_STEP"
	EnvPalletLength = "LOADPLAN_PALLET_LENGTH"
	EnvPalletWidth  = "LOADPLAN_PALLET_WIDTH"
	EnvProfile      = "LOADPLAN_PROFILE"
	EnvLogLevel     = "LOADPLAN_LOG_LEVEL"
	EnvPrettyLogs   = "LOADPLAN_PRETTY_LOGS"
)

// ApplyEnv returns config with any set LOADPLAN_* variables applied.
// Values that do not parse are ignored.
func ApplyEnv(config model.AppConfig) model.AppConfig {
	config.DefaultGridStep = getEnvInt(EnvGridStep, config.DefaultGridStep)
	config.DefaultPalletLength = getEnvInt(EnvPalletLength, config.DefaultPalletLength)
	config.DefaultPalletWidth = getEnvInt(EnvPalletWidth, config.DefaultPalletWidth)
	config.DefaultVehicle = getEnv(EnvProfile, config.DefaultVehicle)
	config.LogLevel = strings.ToLower(getEnv(EnvLogLevel, config.LogLevel))
	config.PrettyLogs = getEnvBool(EnvPrettyLogs, config.PrettyLogs)
	return config
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && i > 0 {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
