package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civitoken/server/internal/apperrors"
	"github.com/civitoken/server/internal/config"
	"github.com/civitoken/server/internal/models"
)

func setupTestRepo(t *testing.T) (*SQLiteRepository, func()) {
	t.Helper()

	cfg := config.LoadConfig()
	cfg.Database.Name = "repo-test-" + uuid.New().String()

	db, err := config.SetupDatabase(cfg)
	require.NoError(t, err, "Failed to open test database")

	cleanup := func() {
		db.Close()
	}

	return NewSQLiteRepository(db), cleanup
}

func createTestUser(t *testing.T, repo *SQLiteRepository, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		FullName: "Test User",
		Role:     models.RoleResident,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestBalanceIsSumOfTransactions(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, repo, "ledger@example.com")

	balance, err := repo.BalanceOf(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	amounts := []int64{150, 100, -80, 5, -200}
	var sum int64
	for _, amount := range amounts {
		err := repo.AddTransaction(ctx, &models.TokenTransaction{
			UserID:      user.ID,
			Amount:      amount,
			Type:        models.TxAdminAdjustment,
			Description: "adjustment",
		}, nil)
		require.NoError(t, err)
		sum += amount

		balance, err = repo.BalanceOf(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, sum, balance, "balance must track the running sum")
	}

	// The user read path reports the same derived balance
	loaded, err := repo.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sum, loaded.TokenBalance)

	// Other users' ledgers are independent
	other := createTestUser(t, repo, "other@example.com")
	balance, err = repo.BalanceOf(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestCreateRegistrationIsAtomic(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, repo, "resident@example.com")

	event := &models.Event{
		Title:        "Park Day",
		Description:  "A day in the park",
		EventDate:    time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		Category:     models.CategoryOther,
		TokensReward: 25,
		Status:       models.EventUpcoming,
	}
	require.NoError(t, repo.CreateEvent(ctx, event))

	reg := &models.EventRegistration{
		EventID: event.ID,
		UserID:  user.ID,
		Status:  models.RegistrationRegistered,
	}
	award := &models.TokenTransaction{
		UserID:      user.ID,
		Amount:      event.TokensReward,
		Type:        models.TxEventAttendance,
		Description: event.Title,
		ReferenceID: event.ID,
	}
	plog := &models.ParticipationLog{
		UserID:     user.ID,
		ActionType: models.ActionEventRegister,
		EntityType: "event",
		EntityID:   event.ID,
	}

	require.NoError(t, repo.CreateRegistration(ctx, reg, award, plog))
	assert.NotEmpty(t, reg.ID)

	balance, err := repo.BalanceOf(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	// A second registration for the same (event, user) pair is rejected
	// and leaves no trace in the ledger
	dup := &models.EventRegistration{
		EventID: event.ID,
		UserID:  user.ID,
		Status:  models.RegistrationRegistered,
	}
	err = repo.CreateRegistration(ctx, dup, &models.TokenTransaction{
		UserID: user.ID,
		Amount: event.TokensReward,
		Type:   models.TxEventAttendance,
	}, &models.ParticipationLog{
		UserID:     user.ID,
		ActionType: models.ActionEventRegister,
		EntityType: "event",
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

	balance, err = repo.BalanceOf(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	transactions, err := repo.ListTransactions(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

func TestListEventsOrderingAndFilter(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()
	dates := []time.Time{
		time.Date(2025, 12, 24, 16, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 22, 18, 0, 0, 0, time.UTC),
	}
	for i, date := range dates {
		status := models.EventUpcoming
		if i == 2 {
			status = models.EventCancelled
		}
		require.NoError(t, repo.CreateEvent(ctx, &models.Event{
			Title:       "Event",
			Description: "d",
			EventDate:   date,
			Category:    models.CategoryOther,
			Status:      status,
		}))
	}

	events, err := repo.ListEvents(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[0].EventDate.Before(events[1].EventDate))
	assert.True(t, events[1].EventDate.Before(events[2].EventDate))

	events, err = repo.ListEvents(ctx, models.EventUpcoming, 0)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = repo.ListEvents(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, dates[1].Equal(events[0].EventDate), "limit must keep the earliest event")
}
