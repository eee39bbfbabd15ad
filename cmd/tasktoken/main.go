package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"tasklist/connection"
	"tasklist/services"
)

func main() {
	subject := flag.String("subject", "", "Token subject, e.g. the client or operator name")
	ttl := flag.Duration("ttl", 60*time.Minute, "Token lifetime")
	flag.Parse()

	if *subject == "" {
		log.Fatal("-subject is required")
	}

	cfg, err := connection.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET_KEY is not set")
	}

	token, err := services.CreateAccessToken([]byte(cfg.JWTSecret), *subject, *ttl)
	if err != nil {
		log.Fatalf("Failed to create access token: %v", err)
	}
	fmt.Println(token)
}
