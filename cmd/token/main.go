// Command token mints an access token for the billing API.
//
//	token -sub clerk-7 -role CLERK -ttl 8h
//
// The signing secret is read from JWT_SECRET (or .env); -ttl defaults to
// ACCESS_TOKEN_TTL_MIN minutes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-billing/internal/config"
	"github.com/iliyamo/theater-billing/internal/middleware"
	"github.com/iliyamo/theater-billing/internal/utils"
)

func main() {
	_ = godotenv.Load()

	sub := flag.String("sub", "", "token subject (user id)")
	role := flag.String("role", middleware.RoleClerk, "role claim: MANAGER or CLERK")
	ttl := flag.Duration("ttl", config.AccessTTL(), "token lifetime (default from ACCESS_TOKEN_TTL_MIN)")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logrus.Fatal("missing required env var: JWT_SECRET")
	}
	if *sub == "" {
		logrus.Fatal("-sub is required")
	}
	if *role != middleware.RoleManager && *role != middleware.RoleClerk {
		logrus.Fatalf("unknown role %q", *role)
	}

	tok, err := utils.NewAccessToken(secret, *sub, *role, *ttl)
	if err != nil {
		logrus.WithError(err).Fatal("sign token")
	}
	fmt.Println(tok.Token)
	logrus.Infof("token for %s (%s) expires %s", *sub, *role, tok.Exp.Format(time.RFC3339))
}
