package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/kalviumcommunity/Medical-Appointments/config"
	apimod "github.com/kalviumcommunity/Medical-Appointments/modules/api"
	"github.com/kalviumcommunity/Medical-Appointments/modules/appointments"
	"github.com/kalviumcommunity/Medical-Appointments/modules/auth"
	cachemod "github.com/kalviumcommunity/Medical-Appointments/modules/cache"
	storemod "github.com/kalviumcommunity/Medical-Appointments/modules/store"
	"github.com/kalviumcommunity/Medical-Appointments/modules/users"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	log.Println("=== Medical Appointments ===")
	log.Printf("Env: %s", cfg.Env)
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Store Driver: %s", cfg.Store.Driver)
	log.Printf("Redis: %s", cfg.Cache.RedisAddr)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	storeModule := storemod.NewModule(cfg.Store)
	cacheModule := cachemod.NewModule(cfg.Cache)
	authModule := auth.NewModule(cfg.Auth, storeModule)
	userModule := users.NewModule(storeModule, cacheModule)
	apptModule := appointments.NewModule(storeModule)
	apiModule := apimod.NewModule(cfg, userModule, apptModule, storeModule, cacheModule)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	app.Register(storeModule)
	app.Register(cacheModule)
	app.Register(authModule)
	app.Register(userModule)
	app.Register(apptModule)
	app.Register(apiModule)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", cfg.HTTPPort)
	log.Println("Endpoints:")
	log.Println("  GET    /health                  - Health check")
	log.Println("  POST   /auth/signup             - Register")
	log.Println("  POST   /auth/login              - Login")
	log.Println("  GET    /users                   - List users (cached)")
	log.Println("  POST   /users                   - Create user")
	log.Println("  GET    /users/:id               - Get user with appointments")
	log.Println("  PUT    /users/:id               - Update user")
	log.Println("  DELETE /users/:id               - Delete user")
	log.Println("  GET    /doctor                  - Doctor-only area")
	log.Println("  GET    /appointments            - List appointments")
	log.Println("  POST   /appointments            - Book appointment")
	log.Println("  PATCH  /appointments/:id        - Update status (doctor)")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
