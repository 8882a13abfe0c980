package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/tickit/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	EndpointAddr       string `json:"endpoint_addr"`
	DatabaseDSN        string `json:"database_dsn"`
	SecretKey          string `json:"secret_key"`
	TokenValidityHours int    `json:"token_validity_hours"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flag, if any. Read or unmarshal errors panic; LoadConfig
// runs before any state is touched.
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

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenValidityHours > 0 {
		cfg.TokenValidityDuration = time.Duration(jc.TokenValidityHours) * time.Hour
	}
}
