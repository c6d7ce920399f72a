// Command admintoken prints a manager bearer token for the admin API.
//
//	admintoken -subject manager@spice.com -ttl 8h
package main

import (
	"flag"
	"fmt"
	"os"

	"spice/internal/config"
	"spice/internal/logger"
	"spice/internal/middleware"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	subject := flag.String("subject", "", "admin identity recorded in the audit log")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRES_IN)")
	flag.Parse()

	if *subject == "" {
		logger.Get().Fatal("-subject is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("failed to load config: %v", err)
	}
	if *ttl == 0 {
		*ttl = cfg.JWTExpirationDur
	}

	token, err := middleware.GenerateAccessToken(cfg.JWTSecret, *subject, middleware.RoleManager, *ttl)
	if err != nil {
		logger.Get().Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
