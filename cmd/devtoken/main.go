// Command devtoken mints and checks bearer tokens for local development
// against the AUTH_* settings of the API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/betterlearn/betterlearn-api/auth"
	"github.com/betterlearn/betterlearn-api/config"
)

func main() {
	subject := flag.String("sub", "dev-user", "token subject")
	nickname := flag.String("nickname", "", "optional nickname claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	verify := flag.String("verify", "", "verify this token instead of minting one")
	flag.Parse()

	_ = godotenv.Load()
	env, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !env.AuthEnabled() {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}
	cfg := auth.TokenConfig{Secret: env.AuthSecret, Issuer: env.AuthIssuer, Audience: env.AuthAudience}

	if *verify != "" {
		sub, err := auth.VerifyToken(cfg, *verify)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(sub)
		return
	}

	token, err := auth.CreateNamedToken(cfg, *subject, *nickname, *ttl)
	if err != nil {
		log.Fatalf("failed to create token: %v", err)
	}
	fmt.Println(token)
}
