package memory

import (
	"context"
	"sort"
	"sync"

	"bowling/internal/model"
	"bowling/internal/repository"
)

type repo struct {
	mu      sync.RWMutex
	results map[string]*model.Result
}

// NewResultRepository creates an in-memory result archive
func NewResultRepository() repository.ResultRepository {
	return &repo{
		results: make(map[string]*model.Result),
	}
}

func (r *repo) Save(_ context.Context, result *model.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[result.ID] = clone(result)
	return nil
}

func (r *repo) Get(_ context.Context, id string) (*model.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[id]
	if !ok {
		return nil, repository.ErrResultNotFound
	}
	return clone(result), nil
}

func (r *repo) Top(_ context.Context, limit int) ([]*model.Result, error) {
	r.mu.RLock()
	all := make([]*model.Result, 0, len(r.results))
	for _, result := range r.results {
		all = append(all, clone(result))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].FinishedAt.Before(all[j].FinishedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *repo) Close() error {
	return nil
}

func clone(result *model.Result) *model.Result {
	c := *result
	c.Rolls = append([]int(nil), result.Rolls...)
	return &c
}
