package main

import (
	"log"

	"github.com/nexus-esports/nexushub/config"
	_ "github.com/nexus-esports/nexushub/docs"
	"github.com/nexus-esports/nexushub/internal/auth"
	"github.com/nexus-esports/nexushub/internal/content"
	"github.com/nexus-esports/nexushub/internal/event"
	"github.com/nexus-esports/nexushub/internal/jobs"
	"github.com/nexus-esports/nexushub/internal/registration"
	"github.com/nexus-esports/nexushub/routes"
)

// @title NexusHub Esports API
// @version 1.0
// @description Tournament and event management backend for NexusHub.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&auth.Admin{},
		&event.Event{},
		&registration.TeamRegistration{}, &registration.RateLimitRecord{},
		&content.Prize{}, &content.GalleryImage{}, &content.Video{}, &content.LegalDocument{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	if err := auth.SeedAdmin(auth.NewAuthRepository(config.DB), cfg); err != nil {
		log.Fatalf("Admin seed failed: %v", err)
	}

	scheduler, err := jobs.NewScheduler(
		event.NewEventRepository(config.DB),
		registration.NewRegistrationRepository(config.DB),
		cfg,
	)
	if err != nil {
		log.Fatalf("Scheduler init failed: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Scheduler start failed: %v", err)
	}
	defer scheduler.Stop()

	r := routes.SetupRoutes(cfg)

	// Use port from loaded configuration
	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
