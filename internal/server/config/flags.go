package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l int      download URL validity, seconds
//	-w int      preview URL validity, minutes
//	-m int      max upload size, MiB
//	-k string   master key passphrase (empty keeps file keys verbatim)
//	-z string   master key salt
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are integers in the unit noted above.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-u", "-p", "-b", "-g", "-e", "-l", "-w", "-m", "-k", "-z"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	downloadValidity := fs.Int("l", int(config.DownloadURLValidity.Seconds()), "download URL validity (in seconds)")
	previewValidity := fs.Int("w", int(config.PreviewURLValidity.Minutes()), "preview URL validity (in minutes)")
	maxUpload := fs.Int64("m", config.MaxUploadSize>>20, "max upload size (in MiB)")

	fs.StringVar(&config.MasterKeyPassphrase, "k", config.MasterKeyPassphrase, "master key passphrase")
	fs.StringVar(&config.MasterKeySalt, "z", config.MasterKeySalt, "master key salt")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DownloadURLValidity = time.Duration(*downloadValidity) * time.Second
	config.PreviewURLValidity = time.Duration(*previewValidity) * time.Minute
	config.MaxUploadSize = *maxUpload << 20
}
