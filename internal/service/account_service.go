package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealer-kart/internal/auth"
	"dealer-kart/internal/model"
	"dealer-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// accountService implements AccountService.
type accountService struct {
	customerRepo repository.CustomerRepository
	dealerRepo   repository.DealerRepository
	tokens       TokenIssuer
	logger       zerolog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(
	customerRepo repository.CustomerRepository,
	dealerRepo repository.DealerRepository,
	tokens TokenIssuer,
	logger zerolog.Logger,
) AccountService {
	return &accountService{
		customerRepo: customerRepo,
		dealerRepo:   dealerRepo,
		tokens:       tokens,
		logger:       logger.With().Str("service", "account").Logger(),
	}
}

func validateRegistration(req *model.RegisterRequest, role model.Role) error {
	if req == nil {
		return model.NewValidationError("request body is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.NewValidationError("name is required")
	}
	if !validEmail(req.Email) {
		return model.NewValidationError("a valid email is required")
	}
	if len(req.Password) < minPasswordLen {
		return model.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if role == model.RoleDealer && strings.TrimSpace(req.BusinessName) == "" {
		return model.NewValidationError("business name is required")
	}
	return nil
}

func (s *accountService) respond(id uuid.UUID, role model.Role, account any) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(id, role)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.AuthResponse{Token: token, Role: role, Account: account}, nil
}

// RegisterCustomer creates a customer account and signs them in.
func (s *accountService) RegisterCustomer(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if req != nil {
		req.Email = normalizeEmail(req.Email)
	}
	if err := validateRegistration(req, model.RoleCustomer); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}

	now := time.Now().UTC()
	customer := &model.Customer{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			s.logger.Warn().Str("email", customer.Email).Msg("customer email already registered")
			return nil, err
		}
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}

	s.logger.Info().Str("customer_id", customer.ID.String()).Msg("customer registered")
	return s.respond(customer.ID, model.RoleCustomer, customer)
}

// LoginCustomer verifies customer credentials.
func (s *accountService) LoginCustomer(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, model.NewValidationError("email and password are required")
	}

	customer, err := s.customerRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if customer == nil || !auth.CheckPassword(customer.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", normalizeEmail(req.Email)).Msg("customer login rejected")
		return nil, model.ErrInvalidCredentials
	}

	return s.respond(customer.ID, model.RoleCustomer, customer)
}

// GetCustomer retrieves a customer profile.
func (s *accountService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, model.ErrAccountNotFound
	}
	return customer, nil
}

// UpdateCustomer applies a profile update.
func (s *accountService) UpdateCustomer(ctx context.Context, id uuid.UUID, update *model.ProfileUpdate) (*model.Customer, error) {
	if update == nil {
		return nil, model.NewValidationError("request body is required")
	}

	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, model.NewValidationError("name must not be empty")
		}
		customer.Name = strings.TrimSpace(*update.Name)
	}
	if update.Phone != nil {
		customer.Phone = *update.Phone
	}
	if update.Address != nil {
		customer.Address = update.Address
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// RegisterDealer creates a dealer account and signs them in.
func (s *accountService) RegisterDealer(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if req != nil {
		req.Email = normalizeEmail(req.Email)
	}
	if err := validateRegistration(req, model.RoleDealer); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register dealer: %w", err)
	}

	now := time.Now().UTC()
	dealer := &model.Dealer{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		BusinessName: strings.TrimSpace(req.BusinessName),
		Phone:        req.Phone,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.dealerRepo.Create(ctx, dealer); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			s.logger.Warn().Str("email", dealer.Email).Msg("dealer email already registered")
			return nil, err
		}
		return nil, fmt.Errorf("failed to register dealer: %w", err)
	}

	s.logger.Info().Str("dealer_id", dealer.ID.String()).Msg("dealer registered")
	return s.respond(dealer.ID, model.RoleDealer, dealer)
}

// LoginDealer verifies dealer credentials.
func (s *accountService) LoginDealer(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, model.NewValidationError("email and password are required")
	}

	dealer, err := s.dealerRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if dealer == nil || !auth.CheckPassword(dealer.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", normalizeEmail(req.Email)).Msg("dealer login rejected")
		return nil, model.ErrInvalidCredentials
	}

	return s.respond(dealer.ID, model.RoleDealer, dealer)
}

// GetDealer retrieves a dealer profile.
func (s *accountService) GetDealer(ctx context.Context, id uuid.UUID) (*model.Dealer, error) {
	dealer, err := s.dealerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get dealer: %w", err)
	}
	if dealer == nil {
		return nil, model.ErrAccountNotFound
	}
	return dealer, nil
}

// UpdateDealer applies a profile update.
func (s *accountService) UpdateDealer(ctx context.Context, id uuid.UUID, update *model.ProfileUpdate) (*model.Dealer, error) {
	if update == nil {
		return nil, model.NewValidationError("request body is required")
	}

	dealer, err := s.GetDealer(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, model.NewValidationError("name must not be empty")
		}
		dealer.Name = strings.TrimSpace(*update.Name)
	}
	if update.BusinessName != nil {
		if strings.TrimSpace(*update.BusinessName) == "" {
			return nil, model.NewValidationError("business name must not be empty")
		}
		dealer.BusinessName = strings.TrimSpace(*update.BusinessName)
	}
	if update.Phone != nil {
		dealer.Phone = *update.Phone
	}
	dealer.UpdatedAt = time.Now().UTC()

	if err := s.dealerRepo.Update(ctx, dealer); err != nil {
		return nil, fmt.Errorf("failed to update dealer: %w", err)
	}
	return dealer, nil
}
