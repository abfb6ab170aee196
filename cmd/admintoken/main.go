// Command admintoken prints a bearer token for the storefront admin API,
// signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/pkg/auth"
)

func main() {
	subject := flag.String("sub", "ops", "token subject")
	role := flag.String("role", auth.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	slog.SetDefault(telemetry.NewLogger(os.Stderr, "info"))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.InsecureJWTSecret {
		slog.Warn("JWT_SECRET unset, signing with the development secret")
	}

	token, err := auth.NewSigner(cfg.JWTSecret, *ttl).GenerateToken(*subject, *role)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
