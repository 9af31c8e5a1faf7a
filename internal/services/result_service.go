package services

import (
	"context"
	"fmt"

	"github.com/themizzi/shopcheck/internal/models"
)

// ResultRepository defines the interface for result persistence
type ResultRepository interface {
	CreateResult(ctx context.Context, result *models.Result) error
	UpdateResult(ctx context.Context, result *models.Result) error
	GetResult(ctx context.Context, id string) (*models.Result, error)
	ListRun(ctx context.Context, runID string) ([]*models.Result, error)
}

// ResultService records the outcome of every test in a run
type ResultService interface {
	StartResult(ctx context.Context, runID, name, browser string) (*models.Result, error)
	FinishResult(ctx context.Context, result *models.Result, status models.ResultStatus, message, screenshotPath string) error
	RunResults(ctx context.Context, runID string) ([]*models.Result, error)
}

// ResultServiceImpl implements ResultService
type ResultServiceImpl struct {
	resultRepo ResultRepository
}

// NewResultService creates a new result service
func NewResultService(resultRepo ResultRepository) ResultService {
	return &ResultServiceImpl{
		resultRepo: resultRepo,
	}
}

// StartResult creates and persists a pending result
func (s *ResultServiceImpl) StartResult(ctx context.Context, runID, name, browser string) (*models.Result, error) {
	result, err := models.NewResult(runID, name, browser)
	if err != nil {
		return nil, fmt.Errorf("invalid result: %w", err)
	}

	if err := s.resultRepo.CreateResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to create result: %w", err)
	}

	return result, nil
}

// FinishResult moves the result to status and persists it
func (s *ResultServiceImpl) FinishResult(ctx context.Context, result *models.Result, status models.ResultStatus, message, screenshotPath string) error {
	// Use domain methods to transition state
	var err error
	switch status {
	case models.ResultStatusPassed:
		err = result.Pass()
	case models.ResultStatusFailed:
		err = result.Fail(message, screenshotPath)
	case models.ResultStatusBroken:
		err = result.Break(message)
	case models.ResultStatusSkipped:
		err = result.Skip(message)
	default:
		return fmt.Errorf("invalid result status: %s", status)
	}
	if err != nil {
		return err
	}

	if err := s.resultRepo.UpdateResult(ctx, result); err != nil {
		return fmt.Errorf("failed to update result: %w", err)
	}

	return nil
}

// RunResults returns every result of a run
func (s *ResultServiceImpl) RunResults(ctx context.Context, runID string) ([]*models.Result, error) {
	results, err := s.resultRepo.ListRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}
