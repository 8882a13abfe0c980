package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/tickit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string           bind address of the HTTP endpoint
//	-d string           PostgreSQL DSN
//	-k string           JWT signing secret
//	-t int              token validity in hours
//	-mint-token string  print an access token for the given account id and exit
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-t", "-mint-token"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to listen on")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "JWT signing secret")
	tokenValidityHours := fs.Int("t", int(cfg.TokenValidityDuration.Hours()), "token validity (in hours)")
	fs.StringVar(&cfg.MintTokenFor, "mint-token", cfg.MintTokenFor, "print an access token for the account id and exit")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenValidityDuration = time.Duration(*tokenValidityHours) * time.Hour
}
