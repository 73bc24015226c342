package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"bowling/internal/model"
	"bowling/internal/repository"
)

const (
	table      = "game_results"
	idCol      = "id"
	gameIDCol  = "game_id"
	bowlerCol  = "bowler"
	rollsCol   = "rolls"
	scoreCol   = "score"
	finishedAt = "finished_at"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	id TEXT PRIMARY KEY,
	game_id TEXT NOT NULL,
	bowler TEXT NOT NULL,
	rolls TEXT NOT NULL,
	score INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_results_score ON game_results(score DESC, finished_at ASC);
`

type repo struct {
	db *sql.DB
}

// NewResultRepository opens (or creates) the SQLite archive at path
func NewResultRepository(path string) (repository.ResultRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &repo{db: db}, nil
}

// Save inserts a result, replacing any result with the same ID
func (r *repo) Save(ctx context.Context, result *model.Result) error {
	rolls, err := json.Marshal(result.Rolls)
	if err != nil {
		return err
	}

	query := sq.Insert(table).
		Options("OR REPLACE").
		Columns(idCol, gameIDCol, bowlerCol, rollsCol, scoreCol, finishedAt).
		Values(result.ID, result.GameID, result.Bowler, string(rolls), result.Score, result.FinishedAt.UnixNano())

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// Get loads a result by ID
func (r *repo) Get(ctx context.Context, id string) (*model.Result, error) {
	query := sq.Select(idCol, gameIDCol, bowlerCol, rollsCol, scoreCol, finishedAt).
		From(table).
		Where(sq.Eq{idCol: id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	result, err := scanResult(r.db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

// Top returns the best results, earliest first on ties
func (r *repo) Top(ctx context.Context, limit int) ([]*model.Result, error) {
	query := sq.Select(idCol, gameIDCol, bowlerCol, rollsCol, scoreCol, finishedAt).
		From(table).
		OrderBy(scoreCol+" DESC", finishedAt+" ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*model.Result, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func (r *repo) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*model.Result, error) {
	var (
		result   model.Result
		rawRolls string
		finished int64
	)

	if err := row.Scan(&result.ID, &result.GameID, &result.Bowler, &rawRolls, &result.Score, &finished); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(rawRolls), &result.Rolls); err != nil {
		return nil, fmt.Errorf("invalid rolls for result %s: %w", result.ID, err)
	}
	result.FinishedAt = time.Unix(0, finished)

	return &result, nil
}
