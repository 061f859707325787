// Command webapp serves the password-gated roster viewer over the store the
// ingest run wrote. The login password comes from the ADMIN_PASSWORD
// environment variable (or a local .env file).
package main

import (
	"log"

	"github.com/kvachher/masti-reg-tracker/internal/config"
	"github.com/kvachher/masti-reg-tracker/internal/webui"
)

func main() {
	cfg := config.Load()

	if cfg.AdminPassword == "" {
		log.Printf("webapp: ADMIN_PASSWORD is not set; all logins will be rejected")
	}
	if cfg.DBDriver != "sqlite" {
		log.Fatalf("webapp: only the sqlite store is servable, got driver %q", cfg.DBDriver)
	}

	srv, err := webui.NewServer(webui.Config{
		Addr:     cfg.WebAddr,
		DSN:      cfg.DSN,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		log.Fatalf("webapp: %v", err)
	}
	defer srv.Close()

	log.Printf("webapp: listening on %s", cfg.WebAddr)
	if err := srv.Run(); err != nil {
		log.Fatalf("webapp: %v", err)
	}
}
