// Command labauth-server runs the lab-manager authentication API.
//
// Configuration comes from an optional YAML file (-config) with environment
// overrides (LABAUTH_ADDR, LABAUTH_STORAGE, LABAUTH_DSN, LABAUTH_JWT_SECRET).
//
// Endpoints:
//
//	POST /api/auth/register — JSON {"email","password","role"}
//	POST /api/auth/login    — JSON {"email","password","role"}
//	GET  /api/auth/verify   — header "Authorization: Bearer <token>"
//	GET  /api/health        — credential store ping
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/4clab/labauth"
	"github.com/4clab/labauth/httpapi"
	"github.com/4clab/labauth/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	credentials, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	engineCfg := labauth.DefaultConfig()
	engineCfg.JWT.PrivateKey = []byte(cfg.JWT.Secret)
	engineCfg.JWT.TTL = cfg.JWT.TTL
	engineCfg.JWT.Issuer = cfg.JWT.Issuer
	if cfg.DefaultRole != "" {
		engineCfg.Account.DefaultRole = cfg.DefaultRole
	}

	engine, err := labauth.New().
		WithConfig(engineCfg).
		WithStore(credentials).
		WithNotifySink(labauth.NewJSONWriterSink(os.Stdout)).
		Build()
	if err != nil {
		log.Fatal("engine build:", err)
	}
	defer engine.Close()

	router := httpapi.NewRouter(engine)

	log.Printf("labauth-server listening on %s (storage: %s)", cfg.Addr, cfg.Storage.Backend)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg serverConfig) (labauth.CredentialStore, func(), error) {
	migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.Storage.Backend {
	case "postgres":
		pg, err := store.NewPostgres(cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(migrateCtx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, func() { pg.Close() }, nil
	case "sqlite":
		lite, err := store.NewSQLite(cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := lite.Migrate(migrateCtx); err != nil {
			lite.Close()
			return nil, nil, err
		}
		return lite, func() { lite.Close() }, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}
