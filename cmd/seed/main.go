// Package main provides a tool to seed the store with development data.
//
// It creates a verified super-admin account (if no users exist yet) and a
// handful of sample events so the frontend has something to render.
//
// Usage:
//
//	STORE_PATH=./data go run ./cmd/seed
//	STORE_PATH=./data go run ./cmd/seed --admin-email root@legacy25.example
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/id"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

var (
	adminEmail    = flag.String("admin-email", "root@legacy25.example", "Super admin email")
	adminPassword = flag.String("admin-password", "change-me-now", "Super admin password")
)

func main() {
	flag.Parse()

	storePath := os.Getenv("STORE_PATH")
	if storePath == "" {
		storePath = "./data"
	}

	fmt.Printf("Opening store at: %s\n", storePath)

	s, err := store.New(storePath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	seedSuperAdmin(ctx, s)
	seedEvents(ctx, s)

	fmt.Println("Done.")
}

// seedSuperAdmin creates the first account as a verified super admin. Skipped
// when any user already exists, so running the seeder twice is safe.
func seedSuperAdmin(ctx context.Context, s *store.Store) {
	count, err := s.Users.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	if count > 0 {
		fmt.Printf("Users already exist (%d); skipping super admin\n", count)
		return
	}

	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := domain.NewParticipant(
		id.MustGenerate("user"),
		*adminEmail,
		hash,
		"Super Admin",
		"0000000000",
		domain.GenderOther,
		"N/A",
		"Legacy25",
		1,
	)
	user.IsVerified = true
	user.IsSuperAdmin = true

	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		log.Fatalf("Failed to create super admin: %v", err)
	}

	fmt.Printf("Created super admin %s (%s)\n", user.Email, user.ID)
}

// seedEvents creates a mix of solo and group sample events.
func seedEvents(ctx context.Context, s *store.Store) {
	events := service.NewEventService(s, nil)

	deadline := time.Now().AddDate(0, 1, 0)

	samples := []service.CreateEventRequest{
		{
			Name:                 "Code Sprint",
			Description:          "Three-hour competitive programming contest.",
			Type:                 "solo",
			Club:                 "Coding Club",
			Venue:                "Lab Block A",
			MaxApplications:      200,
			RegistrationDeadline: &deadline,
		},
		{
			Name:                 "Robo Wars",
			Description:          "Build a bot and fight it out in the arena.",
			Type:                 "group",
			Club:                 "Robotics Club",
			Venue:                "Main Auditorium",
			MinTeamSize:          2,
			MaxTeamSize:          4,
			MaxApplications:      30,
			RegistrationDeadline: &deadline,
		},
		{
			Name:                 "Street Dance",
			Description:          "Gender-split crew battles.",
			Type:                 "group",
			Club:                 "Dance Club",
			Venue:                "Open Air Theatre",
			MinTeamSize:          4,
			MaxTeamSize:          8,
			HasGenderBasedTeams:  true,
			MaxBoyTeams:          8,
			MaxGirlTeams:         8,
			RegistrationDeadline: &deadline,
		},
	}

	for _, req := range samples {
		event, err := events.Create(ctx, req)
		if err != nil {
			fmt.Printf("Skipping %q: %v\n", req.Name, err)
			continue
		}
		fmt.Printf("Created event %q (%s)\n", event.Name, event.Slug)
	}
}
