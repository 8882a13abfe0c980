package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tickit/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DatabasePath string `json:"database_path"`
	LogFile      string `json:"log_file"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flag, if any. Missing flag means no JSON is loaded. Read or
// unmarshal errors panic; LoadConfig runs before any state is touched.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
}
