package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

type Page struct {
	Items []*Item
	Total int
}

type Service interface {
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, filter Filter) ([]*Item, int, error)
	// ListAll fetches the first page of every kind concurrently.
	ListAll(ctx context.Context, pageSize int) (map[Kind]Page, error)
}

type service struct {
	repo   Repository
	cache  *cache.Cache
	logger *slog.Logger
}

// NewService wraps repo with a read-through cache. A ttl of zero disables caching.
func NewService(repo Repository, ttl time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, 2*ttl)
	}
	return &service{repo: repo, cache: c, logger: logger}
}

func (s *service) GetByID(ctx context.Context, id string) (*Item, error) {
	key := "item|" + id
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.(*Item), nil
		}
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.upstream(ctx, "get", err)
	}
	if s.cache != nil {
		s.cache.Set(key, it, cache.DefaultExpiration)
	}
	return it, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Item, int, error) {
	if filter.Kind != "" {
		if _, err := ParseKind(string(filter.Kind)); err != nil {
			return nil, 0, err
		}
	}
	filter = filter.normalized()

	key := "list|" + filter.cacheKey()
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			p := v.(Page)
			return p.Items, p.Total, nil
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, s.upstream(ctx, "list", err)
	}
	if s.cache != nil {
		s.cache.Set(key, Page{Items: items, Total: total}, cache.DefaultExpiration)
	}
	return items, total, nil
}

func (s *service) ListAll(ctx context.Context, pageSize int) (map[Kind]Page, error) {
	var mu sync.Mutex
	out := make(map[Kind]Page, len(Kinds))

	g, gctx := errgroup.WithContext(ctx)
	for _, k := range Kinds {
		g.Go(func() error {
			items, total, err := s.List(gctx, Filter{Kind: k, Page: 1, PageSize: pageSize})
			if err != nil {
				return err
			}
			mu.Lock()
			out[k] = Page{Items: items, Total: total}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// upstream keeps domain errors as they are and turns everything else into a retryable ErrUnavailable.
func (s *service) upstream(ctx context.Context, op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidKind) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		// The client moved on to another request.
		return err
	}
	s.logger.ErrorContext(ctx, "catalog fetch failed", slog.String("op", op), slog.Any("error", err))
	return errors.Join(ErrUnavailable, err)
}
