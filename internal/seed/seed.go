package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/civitoken/server/internal/models"
	"github.com/civitoken/server/internal/repository"
)

// DemoResidentEmail identifies the stand-in account used while the app has
// no login.
const DemoResidentEmail = "demo.resident@example.com"

// StaffEmail is the seeded staff account that authors the welcome post
const StaffEmail = "staff@example.com"

// Run populates the fresh in-memory database with demo data: two users,
// a handful of events, the demo resident's transaction history and a
// welcome post on the community board.
func Run(ctx context.Context, repo repository.Repository) error {
	demo := &models.User{
		Email:        DemoResidentEmail,
		FullName:     "Demo Resident",
		Neighborhood: "Riverside",
		Phone:        "(555) 123-4567",
		Role:         models.RoleResident,
		CreatedAt:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	staff := &models.User{
		Email:     StaffEmail,
		FullName:  "County Staff",
		Role:      models.RoleStaff,
		CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	for _, user := range []*models.User{demo, staff} {
		if err := repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("error seeding user %s: %w", user.Email, err)
		}
	}

	events := []*models.Event{
		{
			ID:           "1",
			Title:        "Neighborhood Clean-up",
			Description:  "Help clean up Riverside Park and earn tokens for your contribution.",
			Location:     "Riverside Park",
			EventDate:    time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC),
			Category:     models.CategoryCleanup,
			Capacity:     40,
			TokensReward: 150,
			Status:       models.EventUpcoming,
		},
		{
			ID:           "2",
			Title:        "Teen Coding Night",
			Description:  "Learn the basics of web development in a fun, hands-on workshop.",
			Location:     "Community Tech Center",
			EventDate:    time.Date(2025, 12, 22, 18, 0, 0, 0, time.UTC),
			Category:     models.CategoryWorkshop,
			Capacity:     30,
			TokensReward: 100,
			Status:       models.EventUpcoming,
		},
		{
			ID:           "3",
			Title:        "Holiday Festival",
			Description:  "Celebrate the season with music, food, and local vendors.",
			Location:     "Main Square",
			EventDate:    time.Date(2025, 12, 24, 16, 0, 0, 0, time.UTC),
			Category:     models.CategoryFestival,
			Capacity:     200,
			TokensReward: 80,
			Status:       models.EventUpcoming,
		},
		{
			ID:           "4",
			Title:        "Spring Garden Workshop",
			Description:  "Hands-on planting session in the community garden.",
			Location:     "Community Garden",
			EventDate:    time.Date(2025, 5, 17, 9, 0, 0, 0, time.UTC),
			Category:     models.CategoryEducation,
			Capacity:     25,
			TokensReward: 60,
			Status:       models.EventCompleted,
		},
	}

	for _, event := range events {
		if err := repo.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("error seeding event %q: %w", event.Title, err)
		}
	}

	transactions := []*models.TokenTransaction{
		{
			UserID:      demo.ID,
			Amount:      150,
			Type:        models.TxEventAttendance,
			Description: "Neighborhood Clean-up",
			ReferenceID: "1",
			CreatedAt:   time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC),
		},
		{
			UserID:      demo.ID,
			Amount:      100,
			Type:        models.TxEventAttendance,
			Description: "Teen Coding Night",
			ReferenceID: "2",
			CreatedAt:   time.Date(2025, 6, 22, 20, 0, 0, 0, time.UTC),
		},
		{
			UserID:      demo.ID,
			Amount:      -80,
			Type:        models.TxRewardRedemption,
			Description: "Discount at local café",
			CreatedAt:   time.Date(2025, 6, 23, 10, 30, 0, 0, time.UTC),
		},
	}

	// Seed transactions carry no participation log
	for _, tx := range transactions {
		if err := repo.AddTransaction(ctx, tx, nil); err != nil {
			return fmt.Errorf("error seeding transaction %q: %w", tx.Description, err)
		}
	}

	welcome := &models.CommunityPost{
		Title:             "Welcome to the Community Board",
		Content:           "Feel free to share updates, ask questions, and post ideas here.",
		Category:          "announcement",
		AuthorUserID:      staff.ID,
		AuthorDisplayName: staff.FullName,
		VisibilityMode:    models.VisibilityRealName,
		LikesCount:        3,
		CreatedAt:         time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
	}

	// Seed posts carry no token award or participation log
	if err := repo.CreatePost(ctx, welcome, nil, nil); err != nil {
		return fmt.Errorf("error seeding welcome post: %w", err)
	}

	log.Info().
		Int("users", 2).
		Int("events", len(events)).
		Int("transactions", len(transactions)).
		Msg("seeded demo data")

	return nil
}
