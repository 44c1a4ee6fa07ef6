package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/my-maps-api/config"
	"github.com/oksasatya/my-maps-api/internal/container"
	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/persistence"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
)

const (
	demoEmail    = "demo@mymaps.dev"
	demoPassword = "password123"
	demoUsername = "demoUser"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	closeStores, err := container.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}
	defer closeStores()

	u, created, err := seedUser(ctx, persistence.NewUserRepository(container.GetEntityStore()))
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	if !created {
		fmt.Printf("user already seeded: id=%d email=%s\n", u.ID, u.Email)
		return
	}
	fmt.Printf("seeded user: id=%d email=%s username=%s password=%s\n", u.ID, u.Email, u.Username, demoPassword)

	t, err := seedTimeline(ctx, persistence.NewTimelineRepository(container.GetEntityStore()), u.ID)
	if err != nil {
		log.Fatalf("failed to seed timeline: %v", err)
	}
	fmt.Printf("seeded timeline: id=%d %s -> %s\n", t.ID, t.Origin, t.Destination)
}

// seedUser creates the demo user unless its credentials already log in.
func seedUser(ctx context.Context, users repo.UserRepository) (*entity.User, bool, error) {
	u, err := users.Authenticate(ctx, demoEmail, demoPassword)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return nil, false, err
	}
	u = &entity.User{
		Email:    demoEmail,
		Username: demoUsername,
		Password: demoPassword,
		Profile:  map[string]any{"firstname": "Demo", "lastname": "User"},
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func seedTimeline(ctx context.Context, timelines repo.TimelineRepository, userID int64) (*entity.Timeline, error) {
	t := &entity.Timeline{UserID: userID, Origin: "Paris", Destination: "Lyon", Time: "2024-01-01T08:00:00Z"}
	if err := timelines.Add(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
