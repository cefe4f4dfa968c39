package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"chat-hub/auth"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TokenDuration time.Duration `envconfig:"AUTH_TOKEN_DURATION" default:"24h"`
	Colours       bool          `envconfig:"TOKENGEN_COLOURS" default:"true"`
}

// tokengen mints a signed access token for local testing:
//
//	go run ./cmd/tokengen -username alice -role beta
func main() {
	userID := flag.String("user", "", "User id (defaults to a fresh uuid)")
	username := flag.String("username", "", "Display name")
	role := flag.String("role", "user", "Role claim")
	flag.Parse()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if *username == "" {
		log.Fatal("-username is required")
	}
	if *userID == "" {
		*userID = uuid.NewString()
	}

	token, err := auth.GenerateToken(*userID, *username, *role, cfg.TokenDuration)
	if err != nil {
		log.Fatalf("Token generation failed: %v", err)
	}

	header := fmt.Sprintf("  ====== token for %s (%s) ======", *username, *role)
	if cfg.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)
	fmt.Printf("user_id:    %s\n", *userID)
	fmt.Printf("expires_in: %s\n", cfg.TokenDuration)
	fmt.Printf("\n%s\n", token)
}
