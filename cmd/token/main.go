// Command token mints an access token for local testing of the booking API:
//
//	JWT_SECRET=... go run ./cmd/token -user 42
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/iliyamo/event-hotel-booking/internal/utils"
)

func main() {
	_ = godotenv.Load()

	userID := flag.Int64("user", 0, "user id to put in the token subject")
	ttl := flag.Int("ttl", 60, "token lifetime in minutes")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "signing secret (defaults to $JWT_SECRET)")
	flag.Parse()

	tok, err := utils.NewAccessToken(*secret, *userID, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
}
