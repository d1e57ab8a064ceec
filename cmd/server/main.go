package main

import (
	"context"
	"log"
	_ "time/tzdata"

	"github.com/szymekpro/ztpai-mfs/config"
	"github.com/szymekpro/ztpai-mfs/routes"
	"github.com/szymekpro/ztpai-mfs/services"
	"github.com/szymekpro/ztpai-mfs/utils"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.SESEmail != "" {
		mailer, err := utils.NewSESMailer(ctx, cfg.AWSRegion, cfg.SESEmail)
		if err != nil {
			log.Fatalf("ses: %v", err)
		}
		notifier = mailer
	} else {
		log.Println("SES_EMAIL not set, welcome e-mails disabled")
	}

	var photos services.PhotoUploader
	if cfg.S3Bucket != "" {
		uploader, err := utils.NewS3Uploader(ctx, cfg.S3Region, cfg.S3Bucket, cfg.CloudFrontURL)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		photos = uploader
	} else {
		log.Println("S3_BUCKET not set, photo uploads disabled")
	}

	rdb, err := config.InitRedis(ctx, cfg)
	if err != nil {
		log.Printf("redis unavailable, rate limiting disabled: %v", err)
	}

	hub := services.NewRealtimeHub()
	billing := services.NewBillingLinker(hub)
	users := services.NewUserService(db, notifier)

	r := routes.SetupRouter(routes.Deps{
		Auth: services.NewAuthService(users, services.TokenConfig{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  cfg.AccessTTL,
			RefreshTTL: cfg.RefreshTTL,
		}),
		Users:              users,
		Gyms:               services.NewGymService(db, photos),
		Trainers:           services.NewTrainerDirectory(db, photos),
		Availability:       services.NewAvailabilityService(db, cfg.Location),
		MembershipTypes:    services.NewMembershipTypeService(db, photos),
		Memberships:        services.NewMembershipService(db, billing, cfg.Location),
		Trainings:          services.NewTrainingService(db, billing),
		Payments:           services.NewPaymentService(db, billing),
		Hub:                hub,
		Redis:              rdb,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
