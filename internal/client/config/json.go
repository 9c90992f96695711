package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/flagx"
	"github.com/dmitrijs2005/evidencevault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Pointer fields tell absent keys apart from zero values, so a partial file
// only overrides what it names.
type JsonConfig struct {
	ServerBaseURL  *string         `json:"server_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	JournalPath    *string         `json:"journal_path"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag it does nothing. Read or unmarshal
// errors panic.
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

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.JournalPath != nil {
		cfg.JournalPath = *jc.JournalPath
	}
}
