package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rezkam/cardfile/internal/auth"
	"github.com/rezkam/cardfile/internal/domain"
)

// Command-line tool to issue a signed bearer token for development and
// testing. Not a production identity provider.
func main() {
	userID := flag.String("user", "", "User id to put in the token subject (required)")
	name := flag.String("name", "", "Display name for the token")
	role := flag.String("role", "USER", "Role: USER, MANAGER or ADMIN")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")

	flag.Parse()

	if *userID == "" {
		flag.Usage()
		log.Fatal("missing required -user flag")
	}

	secret := os.Getenv("CARDFILE_JWT_SECRET")
	if secret == "" {
		log.Fatal("CARDFILE_JWT_SECRET is required")
	}
	issuer := os.Getenv("CARDFILE_JWT_ISSUER")
	if issuer == "" {
		issuer = "cardfile"
	}

	caller := domain.Caller{UserID: *userID, UserName: *name}
	switch domain.Role(*role) {
	case domain.RoleUser, domain.RoleManager, domain.RoleAdmin:
		caller.Role = domain.Role(*role)
	default:
		log.Fatalf("unknown role: %s", *role)
	}

	token, err := auth.NewVerifier(secret, issuer).Issue(caller, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(token)
}
