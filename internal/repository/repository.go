package repository

import (
	"context"
	"errors"

	"bowling/internal/model"
)

// ErrResultNotFound is returned when no result matches the requested ID
var ErrResultNotFound = errors.New("result not found")

// ResultRepository stores finished games
type ResultRepository interface {
	Save(ctx context.Context, result *model.Result) error
	Get(ctx context.Context, id string) (*model.Result, error)
	// Top returns up to limit results, highest score first
	Top(ctx context.Context, limit int) ([]*model.Result, error)
	Close() error
}
