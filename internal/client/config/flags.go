package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/tickit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags. The
// args are filtered with flagx.FilterArgs so flags handled elsewhere do not
// trip this flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "path to the log file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
