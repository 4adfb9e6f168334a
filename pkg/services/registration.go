package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gss/competition-registration/pkg/clients/competition"
	"github.com/gss/competition-registration/pkg/models"
	"github.com/gss/competition-registration/pkg/utils"
)

// ErrRegistrationFailed is wrapped by every error returned from Register
var ErrRegistrationFailed = errors.New("registration failed")

// RegistrationService defines the interface for creating competition users
type RegistrationService interface {
	Register(ctx context.Context, input models.RegistrationInput) (models.UserRecord, error)
}

type registrationServiceImpl struct {
	client competition.Client
	logger *zap.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(client competition.Client, logger *zap.Logger) RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &registrationServiceImpl{
		client: client,
		logger: logger,
	}
}

// Register posts the input to /users and returns the created user
func (s *registrationServiceImpl) Register(ctx context.Context, input models.RegistrationInput) (models.UserRecord, error) {
	log := s.logger.With(
		zap.String("email", utils.Fingerprint(input.Email)),
		zap.String("phone", utils.Fingerprint(input.PhoneNumber)),
		zap.Bool("referred", input.ReferralCode != ""),
	)

	var response models.CreateUserResponse
	if err := s.client.Post(ctx, "/users", models.NewCreateUserRequest(input), &response); err != nil {
		log.Warn("registration request failed", zap.Error(err))
		return models.UserRecord{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	log.Info("registered user",
		zap.Int64("user_id", response.Data.ID),
		zap.String("status", response.Status),
	)
	return response.Data, nil
}
