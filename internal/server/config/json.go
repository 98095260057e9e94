package config

import (
	"encoding/json"
	"os"

	"github.com/mpetrovs/trove/internal/flagx"
)

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. Only keys present in the file
// override the current values. If the file cannot be read or contains
// invalid JSON, the function panics: a requested-but-broken config file is
// not a condition to start under.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, config); err != nil {
		panic(err)
	}
}
