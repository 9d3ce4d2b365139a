package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dealer-kart/internal/model"
	"dealer-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// contactService implements ContactService.
type contactService struct {
	contactRepo repository.ContactRepository
	logger      zerolog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(contactRepo repository.ContactRepository, logger zerolog.Logger) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		logger:      logger.With().Str("service", "contact").Logger(),
	}
}

// CreateContact stores a contact form message.
func (s *contactService) CreateContact(ctx context.Context, contact *model.Contact) (*model.Contact, error) {
	if contact == nil {
		return nil, model.NewValidationError("request body is required")
	}
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = normalizeEmail(contact.Email)
	contact.Message = strings.TrimSpace(contact.Message)

	if contact.Name == "" || contact.Message == "" {
		return nil, model.NewValidationError("name and message are required")
	}
	if !validEmail(contact.Email) {
		return nil, model.NewValidationError("a valid email is required")
	}

	contact.ID = uuid.New()
	contact.CreatedAt = time.Now().UTC()

	if err := s.contactRepo.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}

	s.logger.Info().Str("contact_id", contact.ID.String()).Msg("contact message received")
	return contact, nil
}

// ListContacts retrieves contact messages, newest first.
func (s *contactService) ListContacts(ctx context.Context, limit, offset int) ([]model.Contact, error) {
	limit, offset = page(limit, offset)
	contacts, err := s.contactRepo.ListContacts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	return contacts, nil
}

// CreateSubmission stores a free-form test submission.
func (s *contactService) CreateSubmission(ctx context.Context, submission *model.TestSubmission) (*model.TestSubmission, error) {
	if submission == nil {
		return nil, model.NewValidationError("request body is required")
	}
	submission.Name = strings.TrimSpace(submission.Name)
	submission.Email = normalizeEmail(submission.Email)

	if submission.Name == "" {
		return nil, model.NewValidationError("name is required")
	}
	if !validEmail(submission.Email) {
		return nil, model.NewValidationError("a valid email is required")
	}
	if len(submission.Payload) == 0 || string(submission.Payload) == "null" {
		submission.Payload = json.RawMessage(`{}`)
	}

	submission.ID = uuid.New()
	submission.CreatedAt = time.Now().UTC()

	if err := s.contactRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	s.logger.Info().Str("submission_id", submission.ID.String()).Msg("test submission received")
	return submission, nil
}

// ListSubmissions retrieves test submissions, newest first.
func (s *contactService) ListSubmissions(ctx context.Context, limit, offset int) ([]model.TestSubmission, error) {
	limit, offset = page(limit, offset)
	submissions, err := s.contactRepo.ListSubmissions(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}
	return submissions, nil
}
