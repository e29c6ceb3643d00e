// Command devtoken prints a bearer token for local testing of the authenticated routes.
//
//	devtoken -u alice [-ttl 1h]
//
// The signing secret and default lifetime come from JWT_SECRET and ACCESS_TOKEN_TTL.
package main

import (
	"flag"
	"fmt"
	"os"

	"auction-house/internal/auth"
	"auction-house/internal/config"
	"auction-house/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}

	fs := flag.NewFlagSet("devtoken", flag.ExitOnError)
	userID := fs.String("u", "", "user id to embed in the token")
	ttl := fs.Duration("ttl", cfg.AccessTokenTTL, "token lifetime")
	_ = fs.Parse(os.Args[1:])

	if *userID == "" {
		fs.Usage()
		os.Exit(2)
	}

	token, err := auth.GenerateToken(*userID, []byte(cfg.JWTSecret), *ttl)
	if err != nil {
		utils.Fatal("failed to sign token", map[string]any{"user_id": *userID, "error": err.Error()})
	}
	fmt.Println(token)
}
