package models

import (
	"time"
)

// UserRole identifies what kind of account a user holds
type UserRole string

const (
	RoleResident UserRole = "resident"
	RoleStaff    UserRole = "staff"
	RoleAdmin    UserRole = "admin"
)

// EventStatus is the lifecycle state of a community event
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Event categories
const (
	CategoryTownHall  = "town_hall"
	CategoryCleanup   = "cleanup"
	CategoryWorkshop  = "workshop"
	CategoryFestival  = "festival"
	CategorySports    = "sports"
	CategoryEducation = "education"
	CategoryHealth    = "health"
	CategoryOther     = "other"
)

// TransactionType classifies how tokens were earned or spent
type TransactionType string

const (
	TxEventAttendance  TransactionType = "event_attendance"
	TxPostCreation     TransactionType = "post_creation"
	TxVolunteer        TransactionType = "volunteer"
	TxRewardRedemption TransactionType = "reward_redemption"
	TxAdminAdjustment  TransactionType = "admin_adjustment"
)

// RegistrationStatus is the state of an event registration
type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationAttended   RegistrationStatus = "attended"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

// VisibilityMode controls how a post author's name is displayed
type VisibilityMode string

const (
	VisibilityRealName  VisibilityMode = "real_name"
	VisibilityNickname  VisibilityMode = "nickname"
	VisibilityAnonymous VisibilityMode = "anonymous"
)

// User represents a resident, staff member or admin.
// TokenBalance is not a stored column: it is derived from the sum of the
// user's token transactions whenever a user row is read, so it can never
// drift from the ledger.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	Neighborhood string    `db:"neighborhood" json:"neighborhood,omitempty"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Role         UserRole  `db:"role" json:"role"`
	TokenBalance int64     `db:"token_balance" json:"token_balance"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Event represents a community event residents can register for
type Event struct {
	ID           string      `db:"id" json:"id"`
	Title        string      `db:"title" json:"title"`
	Description  string      `db:"description" json:"description"`
	Location     string      `db:"location" json:"location"`
	EventDate    time.Time   `db:"event_date" json:"event_date"`
	Category     string      `db:"category" json:"category"`
	ImageURL     string      `db:"image_url" json:"image_url"`
	Capacity     int         `db:"capacity" json:"capacity"`
	TokensReward int64       `db:"tokens_reward" json:"tokens_reward"`
	Status       EventStatus `db:"status" json:"status"`
}

// EventRegistration links a user to an event. At most one registration may
// exist per (event, user) pair.
type EventRegistration struct {
	ID        string             `db:"id" json:"id"`
	EventID   string             `db:"event_id" json:"event_id"`
	UserID    string             `db:"user_id" json:"user_id"`
	UserEmail string             `db:"-" json:"user_email"`
	Status    RegistrationStatus `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}

// TokenTransaction is a single append-only ledger entry. Redemptions are
// recorded as negative amounts; there is no floor on a user's balance.
type TokenTransaction struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	UserEmail   string          `db:"user_email" json:"user_email,omitempty"`
	Amount      int64           `db:"amount" json:"amount"`
	Type        TransactionType `db:"type" json:"type"`
	Description string          `db:"description" json:"description"`
	ReferenceID string          `db:"reference_id" json:"reference_id,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// CommunityPost is an entry on the community board. The author's user id is
// never serialized: exposing it would defeat the anonymous visibility mode.
type CommunityPost struct {
	ID                string         `db:"id" json:"id"`
	Title             string         `db:"title" json:"title"`
	Content           string         `db:"content" json:"content"`
	Category          string         `db:"category" json:"category"`
	AuthorUserID      string         `db:"author_user_id" json:"-"`
	AuthorDisplayName string         `db:"author_display_name" json:"author_display_name"`
	VisibilityMode    VisibilityMode `db:"visibility_mode" json:"visibility_mode"`
	ImageURL          string         `db:"image_url" json:"image_url"`
	LikesCount        int            `db:"likes_count" json:"likes_count"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
}

// ParticipationLog is a write-only audit record of a user action
type ParticipationLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	ActionType string    `db:"action_type" json:"action_type"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   string    `db:"entity_id" json:"entity_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Participation log action types
const (
	ActionEventRegister = "EVENT_REGISTER"
	ActionPostCreate    = "POST_CREATE"
	ActionTokenRedeem   = "TOKEN_REDEEM"
)
