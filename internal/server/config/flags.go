package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/admingate/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-s string   session token HMAC secret key
//	-l int      session lifetime, minutes
//	-w int      bcrypt work factor
//	-p string   comma-separated protected path prefixes
//	-t int      per-request handler timeout, seconds
//	-secure     set the Secure attribute on the session cookie
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-s", "-l", "-w", "-p", "-t", "-secure"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionLifetime := fs.Int("l", int(config.SessionLifetime.Minutes()), "session lifetime (in minutes)")
	fs.IntVar(&config.HashCost, "w", config.HashCost, "bcrypt work factor")

	prefixes := fs.String("p", strings.Join(config.ProtectedPathPrefixes, ","), "protected path prefixes (comma-separated)")
	handlerTimeout := fs.Int("t", int(config.HandlerTimeout.Seconds()), "handler timeout (in seconds)")
	fs.BoolVar(&config.CookieSecure, "secure", config.CookieSecure, "set Secure on the session cookie")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionLifetime = time.Duration(*sessionLifetime) * time.Minute
	config.HandlerTimeout = time.Duration(*handlerTimeout) * time.Second
	config.ProtectedPathPrefixes = splitPrefixes(*prefixes)
}

func splitPrefixes(s string) []string {
	parts := strings.Split(s, ",")
	prefixes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}
