// Command gentoken issues a bearer token for local testing of the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/auth"
	"github.com/saturnino-fabrica-de-software/momento/internal/config"
)

func main() {
	userFlag := flag.String("user", "", "User ID (random when empty)")
	email := flag.String("email", "", "Email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	userID := uuid.New()
	if *userFlag != "" {
		userID, err = uuid.Parse(*userFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: invalid user id:", err)
			os.Exit(1)
		}
	}

	token, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, *ttl).GenerateToken(userID, *email)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("USER_ID=%s\nTOKEN=%s\n", userID, token)
}
