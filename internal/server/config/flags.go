package config

import (
	"flag"
	"os"
	"time"

	"github.com/aleksvarts/classroom-auth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-x string   redis address for the revocation store (optional)
//	-s string   token signing key
//	-t int      access token validity, minutes
//	-w int      refresh-eligible window, minutes
//	-o int      OTP validity, minutes
//	-l int      OTP code length, digits
//
// The function first filters os.Args to the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-x", "-s", "-t", "-w", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "x", config.RedisAddr, "redis address for revocation store")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing key")

	accessValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshWindow := fs.Int("w", int(config.RefreshableDuration.Minutes()), "refresh-eligible window (in minutes)")
	otpValidity := fs.Int("o", int(config.OTPValidityDuration.Minutes()), "otp validity (in minutes)")

	fs.IntVar(&config.OTPCodeLength, "l", config.OTPCodeLength, "otp code length (digits)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessValidity) * time.Minute
	config.RefreshableDuration = time.Duration(*refreshWindow) * time.Minute
	config.OTPValidityDuration = time.Duration(*otpValidity) * time.Minute
}
