package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seif8911/cyberqr/internal/application"
	appanalysis "github.com/seif8911/cyberqr/internal/application/analysis"
	"github.com/seif8911/cyberqr/internal/config"
	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
	aiclient "github.com/seif8911/cyberqr/internal/infra/ai/openai"
	memcache "github.com/seif8911/cyberqr/internal/infra/cache"
	mysqlp "github.com/seif8911/cyberqr/internal/infra/db/mysql"
	postgresp "github.com/seif8911/cyberqr/internal/infra/db/postgres"
	"github.com/seif8911/cyberqr/internal/infra/httpserver"
	"github.com/seif8911/cyberqr/internal/infra/providers/doh"
	"github.com/seif8911/cyberqr/internal/infra/providers/heuristics"
	"github.com/seif8911/cyberqr/internal/infra/providers/safebrowsing"
	"github.com/seif8911/cyberqr/internal/infra/providers/virustotal"
	minioStore "github.com/seif8911/cyberqr/internal/infra/storage"
	"github.com/seif8911/cyberqr/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	clock := application.SystemClock{}
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour

	// pick the cache store
	var store domain.Cache
	checkers := map[string]middleware.HealthChecker{}
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		store = mysqlp.NewCacheRepository(db, ttl, clock)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		store = postgresp.NewCacheRepository(db, ttl, clock)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	default:
		log.Println("no database configured, using in-memory cache")
		store = memcache.NewMemory(ttl, clock)
	}

	// optional report archive
	var archive domain.Archive
	if cfg.Archive.Enabled {
		s, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Fatalf("archive init error: %v", err)
		}
		archive = s
	}

	// init providers; missing credentials degrade to skipped results
	svc := &appanalysis.Service{
		ThreatList: safebrowsing.New(cfg.Providers.SafeBrowsing.Endpoint, cfg.Providers.SafeBrowsing.APIKey, nil),
		Scanner:    virustotal.New(cfg.Providers.VirusTotal.Endpoint, cfg.Providers.VirusTotal.APIKey, nil),
		AI:         aiclient.NewClient(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.Model),
		Heuristics: heuristics.New(),
		Resolver:   doh.New(cfg.Providers.DNS.Endpoint, nil),
		Cache:      store,
		Archive:    archive,
		Clock:      clock,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Mount("/", httpserver.NewRouter(svc, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
