package main

import (
	"flag"
	"fmt"
	"log"

	"infinite-experiment/flightboard/internal/auth"
	"infinite-experiment/flightboard/internal/config"
)

func main() {
	subject := flag.String("subject", "ops", "operator the token is issued to")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to ADMIN_TOKEN_TTL)")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.IssueAdminToken(cfg.Auth.AdminJWTSecret, *subject, lifetime)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println("Admin token:", token)
}
