package querybench

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file into the process environment if one exists.
// A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			Logger.Warnf("failed to load .env file: %v", err)
		}
		return
	}
	Logger.Infof("loaded configuration from .env file")
}

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		Logger.Warnf("failed to parse int env %v=%v, fallback to %v: %v", key, value, def, err)
		return def
	}
	return parsed
}

func BoolEnv(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		Logger.Warnf("failed to parse bool env %v=%v, fallback to %v: %v", key, value, def, err)
		return def
	}
	return parsed
}
