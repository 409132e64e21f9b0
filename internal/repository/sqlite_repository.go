package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/civitoken/server/internal/apperrors"
	"github.com/civitoken/server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Event operations
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	ListEvents(ctx context.Context, status models.EventStatus, limit int) ([]models.Event, error)

	// Registration operations
	CreateRegistration(ctx context.Context, reg *models.EventRegistration, award *models.TokenTransaction, plog *models.ParticipationLog) error

	// Ledger operations
	AddTransaction(ctx context.Context, tx *models.TokenTransaction, plog *models.ParticipationLog) error
	ListTransactions(ctx context.Context, userID string, limit int) ([]models.TokenTransaction, error)
	BalanceOf(ctx context.Context, userID string) (int64, error)

	// Community post operations
	CreatePost(ctx context.Context, post *models.CommunityPost, award *models.TokenTransaction, plog *models.ParticipationLog) error
	ListPosts(ctx context.Context, limit int) ([]models.CommunityPost, error)
	CountPosts(ctx context.Context) (int, error)
}

// SQLiteRepository implements the Repository interface using an in-memory SQLite database
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *SQLiteRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, full_name, neighborhood, phone, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FullName, user.Neighborhood, user.Phone, user.Role, user.CreatedAt)

	return err
}

// userQuery selects a user row together with its ledger-derived token
// balance, so a User read from the repository always satisfies
// token_balance == sum of that user's transaction amounts.
const userQuery = `
	SELECT u.*, COALESCE(
		(SELECT SUM(t.amount) FROM token_transactions t WHERE t.user_id = u.id), 0
	) AS token_balance
	FROM users u
`

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, userQuery+` WHERE u.email = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Event repository methods
func (r *SQLiteRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (id, title, description, location, event_date, category, image_url, capacity, tokens_reward, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.Location, event.EventDate,
		event.Category, event.ImageURL, event.Capacity, event.TokensReward, event.Status)

	return err
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	query := `SELECT * FROM events WHERE id = ?`

	var event models.Event
	err := r.db.GetContext(ctx, &event, query, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Event not found
		}
		return nil, err
	}

	return &event, nil
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, status models.EventStatus, limit int) ([]models.Event, error) {
	query := `SELECT * FROM events`
	args := []interface{}{}

	// Add status condition if provided
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}

	// Upcoming schedules read soonest-first
	query += ` ORDER BY event_date ASC`

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	events := []models.Event{}
	err := r.db.SelectContext(ctx, &events, query, args...)
	if err != nil {
		return nil, err
	}

	return events, nil
}

// Registration repository methods

// CreateRegistration inserts the registration, its token award and the
// participation log entry in a single transaction, so a concurrent reader
// can never observe a registration without its reward or vice versa.
// Returns apperrors.ErrAlreadyRegistered if the user already holds a
// registration for the event.
func (r *SQLiteRepository) CreateRegistration(
	ctx context.Context,
	reg *models.EventRegistration,
	award *models.TokenTransaction,
	plog *models.ParticipationLog,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	// Check for an existing registration first; the unique index on
	// (event_id, user_id) is the backstop.
	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM event_registrations WHERE event_id = ? AND user_id = ?)`,
		reg.EventID, reg.UserID).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		err = apperrors.ErrAlreadyRegistered
		return err
	}

	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO event_registrations (id, event_id, user_id, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		reg.ID, reg.EventID, reg.UserID, reg.Status, reg.CreatedAt)
	if err != nil {
		return err
	}

	err = addTransactionTx(ctx, tx, award)
	if err != nil {
		return err
	}

	err = addParticipationLogTx(ctx, tx, plog)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Ledger repository methods

// addTransactionTx appends a ledger entry within an existing transaction
func addTransactionTx(ctx context.Context, tx *sql.Tx, entry *models.TokenTransaction) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO token_transactions (id, user_id, amount, type, description, reference_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Amount, entry.Type, entry.Description, entry.ReferenceID, entry.CreatedAt)

	return err
}

// addParticipationLogTx appends an audit record within an existing transaction
func addParticipationLogTx(ctx context.Context, tx *sql.Tx, plog *models.ParticipationLog) error {
	if plog.ID == "" {
		plog.ID = uuid.New().String()
	}
	if plog.CreatedAt.IsZero() {
		plog.CreatedAt = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO participation_logs (id, user_id, action_type, entity_type, entity_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		plog.ID, plog.UserID, plog.ActionType, plog.EntityType, plog.EntityID, plog.CreatedAt)

	return err
}

// AddTransaction appends a standalone ledger entry (seed data, redemptions)
// together with its participation log entry when one is provided
func (r *SQLiteRepository) AddTransaction(ctx context.Context, entry *models.TokenTransaction, plog *models.ParticipationLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	err = addTransactionTx(ctx, tx, entry)
	if err != nil {
		return err
	}

	if plog != nil {
		err = addParticipationLogTx(ctx, tx, plog)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, limit int) ([]models.TokenTransaction, error) {
	query := `
		SELECT t.*, u.email AS user_email
		FROM token_transactions t
		JOIN users u ON u.id = t.user_id
		WHERE t.user_id = ?
		ORDER BY t.created_at DESC
	`
	args := []interface{}{userID}

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	transactions := []models.TokenTransaction{}
	err := r.db.SelectContext(ctx, &transactions, query, args...)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// BalanceOf returns the sum of the signed amounts of all transactions
// recorded for the user. This is the only definition of a token balance.
func (r *SQLiteRepository) BalanceOf(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM token_transactions WHERE user_id = ?`

	var balance int64
	err := r.db.GetContext(ctx, &balance, query, userID)
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// Community post repository methods

// CreatePost inserts the post and, when provided, its token award and
// participation log entry in a single transaction. Seed data passes nil for
// award and plog.
func (r *SQLiteRepository) CreatePost(
	ctx context.Context,
	post *models.CommunityPost,
	award *models.TokenTransaction,
	plog *models.ParticipationLog,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO community_posts (id, title, content, category, author_user_id, author_display_name, visibility_mode, image_url, likes_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Content, post.Category, post.AuthorUserID,
		post.AuthorDisplayName, post.VisibilityMode, post.ImageURL, post.LikesCount, post.CreatedAt)
	if err != nil {
		return err
	}

	if award != nil {
		err = addTransactionTx(ctx, tx, award)
		if err != nil {
			return err
		}
	}

	if plog != nil {
		err = addParticipationLogTx(ctx, tx, plog)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) ListPosts(ctx context.Context, limit int) ([]models.CommunityPost, error) {
	// Activity feeds read newest-first
	query := `SELECT * FROM community_posts ORDER BY created_at DESC`
	args := []interface{}{}

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	posts := []models.CommunityPost{}
	err := r.db.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *SQLiteRepository) CountPosts(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM community_posts`)
	if err != nil {
		return 0, err
	}

	return count, nil
}
