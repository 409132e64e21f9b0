package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/civitoken/server/internal/apperrors"
	"github.com/civitoken/server/internal/models"
	"github.com/civitoken/server/internal/repository"
)

// Tokens awarded for writing a community board post
const postCreationReward = 5

// Service defines all the business logic operations
type Service interface {
	// Events
	ListEvents(ctx context.Context, status models.EventStatus, limit int) ([]models.Event, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	RegisterForEvent(ctx context.Context, eventID, userEmail string) (*models.RegistrationResponse, error)

	// Tokens
	GetTransactions(ctx context.Context, userEmail string) ([]models.TokenTransaction, error)
	GetBalance(ctx context.Context, userEmail string) (*models.BalanceResponse, error)
	RedeemTokens(ctx context.Context, req models.RedeemTokensRequest) (*models.TokenTransaction, error)

	// Users
	GetCurrentUser(ctx context.Context) (*models.User, error)

	// Community board
	ListPosts(ctx context.Context, limit int) ([]models.CommunityPost, error)
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.CommunityPost, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo      repository.Repository
	anonNames *AnonNamer
	demoEmail string
}

// NewDefaultService creates a new DefaultService. demoEmail identifies the
// stand-in account returned by GetCurrentUser while there is no login.
func NewDefaultService(repo repository.Repository, anonNames *AnonNamer, demoEmail string) Service {
	return &DefaultService{
		repo:      repo,
		anonNames: anonNames,
		demoEmail: demoEmail,
	}
}

// Event methods
func (s *DefaultService) ListEvents(ctx context.Context, status models.EventStatus, limit int) ([]models.Event, error) {
	events, err := s.repo.ListEvents(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	return events, nil
}

func (s *DefaultService) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error getting event: %w", err)
	}

	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	return event, nil
}

// RegisterForEvent creates a registration for the user and awards the
// event's token reward in the same step. The event must exist and be
// upcoming, and the user must not already hold a registration for it.
func (s *DefaultService) RegisterForEvent(
	ctx context.Context,
	eventID string,
	userEmail string,
) (*models.RegistrationResponse, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error getting event: %w", err)
	}

	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	if event.Status != models.EventUpcoming {
		return nil, apperrors.ErrEventNotRegistrable
	}

	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	now := time.Now().UTC()

	registration := &models.EventRegistration{
		EventID:   event.ID,
		UserID:    user.ID,
		UserEmail: user.Email,
		Status:    models.RegistrationRegistered,
		CreatedAt: now,
	}

	award := &models.TokenTransaction{
		UserID:      user.ID,
		UserEmail:   user.Email,
		Amount:      event.TokensReward,
		Type:        models.TxEventAttendance,
		Description: event.Title,
		ReferenceID: event.ID,
		CreatedAt:   now,
	}

	plog := &models.ParticipationLog{
		UserID:     user.ID,
		ActionType: models.ActionEventRegister,
		EntityType: "event",
		EntityID:   event.ID,
		CreatedAt:  now,
	}

	if err := s.repo.CreateRegistration(ctx, registration, award, plog); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating registration: %w", err)
	}

	return &models.RegistrationResponse{
		Registration: registration,
		Transaction:  award,
	}, nil
}

// Token methods
func (s *DefaultService) GetTransactions(ctx context.Context, userEmail string) ([]models.TokenTransaction, error) {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	transactions, err := s.repo.ListTransactions(ctx, user.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}

	return transactions, nil
}

func (s *DefaultService) GetBalance(ctx context.Context, userEmail string) (*models.BalanceResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	balance, err := s.repo.BalanceOf(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error computing balance: %w", err)
	}

	return &models.BalanceResponse{
		UserEmail: user.Email,
		Balance:   balance,
	}, nil
}

// RedeemTokens records a redemption as a negative ledger entry. There is no
// floor: the balance may go negative, and the entry is permanent.
func (s *DefaultService) RedeemTokens(ctx context.Context, req models.RedeemTokensRequest) (*models.TokenTransaction, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	now := time.Now().UTC()

	redemption := &models.TokenTransaction{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		UserEmail:   user.Email,
		Amount:      -req.Amount,
		Type:        models.TxRewardRedemption,
		Description: req.Description,
		CreatedAt:   now,
	}

	plog := &models.ParticipationLog{
		UserID:     user.ID,
		ActionType: models.ActionTokenRedeem,
		EntityType: "transaction",
		EntityID:   redemption.ID,
		CreatedAt:  now,
	}

	if err := s.repo.AddTransaction(ctx, redemption, plog); err != nil {
		return nil, fmt.Errorf("error recording redemption: %w", err)
	}

	return redemption, nil
}

// User methods
func (s *DefaultService) GetCurrentUser(ctx context.Context) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, s.demoEmail)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	return user, nil
}

// Community board methods
func (s *DefaultService) ListPosts(ctx context.Context, limit int) ([]models.CommunityPost, error) {
	posts, err := s.repo.ListPosts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	return posts, nil
}

// CreatePost adds a post to the board, logs the action and awards the fixed
// post-creation bonus, all in one step.
func (s *DefaultService) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.CommunityPost, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.AuthorEmail)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	mode := req.VisibilityMode
	if mode == "" {
		mode = models.VisibilityAnonymous
	}

	var displayName string
	switch mode {
	case models.VisibilityRealName:
		displayName = user.FullName
	case models.VisibilityNickname:
		// Users have no separate nickname field yet
		displayName = user.FullName
	default:
		displayName = s.anonNames.Next()
	}

	now := time.Now().UTC()

	post := &models.CommunityPost{
		ID:                uuid.New().String(),
		Title:             req.Title,
		Content:           req.Content,
		Category:          req.Category,
		AuthorUserID:      user.ID,
		AuthorDisplayName: displayName,
		VisibilityMode:    mode,
		LikesCount:        0,
		CreatedAt:         now,
	}

	award := &models.TokenTransaction{
		UserID:      user.ID,
		UserEmail:   user.Email,
		Amount:      postCreationReward,
		Type:        models.TxPostCreation,
		Description: "Created a community post",
		ReferenceID: post.ID,
		CreatedAt:   now,
	}

	plog := &models.ParticipationLog{
		UserID:     user.ID,
		ActionType: models.ActionPostCreate,
		EntityType: "post",
		EntityID:   post.ID,
		CreatedAt:  now,
	}

	if err := s.repo.CreatePost(ctx, post, award, plog); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	return post, nil
}
