package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/evidencevault/internal/flagx"
	"github.com/dmitrijs2005/evidencevault/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations use
// timex.Duration so both "90s" strings and integer nanoseconds are accepted.
// Only fields present in the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP    *string         `json:"endpoint_addr_http"`
	DatabaseDSN         *string         `json:"database_dsn"`
	S3RootUser          *string         `json:"s3_root_user"`
	S3RootPassword      *string         `json:"s3_root_password"`
	S3Bucket            *string         `json:"s3_bucket"`
	S3Region            *string         `json:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint"`
	DownloadURLValidity *timex.Duration `json:"download_url_validity"`
	PreviewURLValidity  *timex.Duration `json:"preview_url_validity"`
	MaxUploadSize       *int64          `json:"max_upload_size"`
	MasterKeyPassphrase *string         `json:"master_key_passphrase"`
	MasterKeySalt       *string         `json:"master_key_salt"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config. Without either flag nothing is loaded. An unreadable file or
// invalid JSON panics, as a broken config must stop startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.MasterKeyPassphrase, c.MasterKeyPassphrase)
	setString(&config.MasterKeySalt, c.MasterKeySalt)

	if c.DownloadURLValidity != nil {
		config.DownloadURLValidity = c.DownloadURLValidity.Duration
	}
	if c.PreviewURLValidity != nil {
		config.PreviewURLValidity = c.PreviewURLValidity.Duration
	}
	if c.MaxUploadSize != nil {
		config.MaxUploadSize = *c.MaxUploadSize
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
