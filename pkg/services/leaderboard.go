package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gss/competition-registration/pkg/clients/competition"
	"github.com/gss/competition-registration/pkg/models"
)

// ErrLeaderboardFetchFailed is wrapped by every error returned from FetchLeaderboard
var ErrLeaderboardFetchFailed = errors.New("leaderboard fetch failed")

// LeaderboardService defines the interface for reading the referral leaderboard
type LeaderboardService interface {
	FetchLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type leaderboardServiceImpl struct {
	client competition.Client
	logger *zap.Logger
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(client competition.Client, logger *zap.Logger) LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &leaderboardServiceImpl{
		client: client,
		logger: logger,
	}
}

// FetchLeaderboard returns the entries in the order the backend ranked them
func (s *leaderboardServiceImpl) FetchLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var response models.LeaderboardResponse
	if err := s.client.Get(ctx, "/leaderboard", &response); err != nil {
		s.logger.Warn("leaderboard request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLeaderboardFetchFailed, err)
	}

	entries := response.Data
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	s.logger.Debug("fetched leaderboard", zap.Int("entries", len(entries)))
	return entries, nil
}
