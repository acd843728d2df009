package inkwell

import (
	"context"
	"time"
)

// CacheService is a tagged byte cache. Get returns (nil, nil) on a miss so
// callers never have to distinguish "absent" from "expired".
type CacheService interface {
	Set(ctx context.Context, key string, data []byte, tags []string, duration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Invalidate(ctx context.Context, tags ...string) error
}

// MongoCacheService stores cache entries in a Mongo collection. Expiry is
// lazy: expired entries are deleted when read.
type MongoCacheService struct {
	repo GenericRepository[CacheEntry]
}

func NewMongoCacheService(repo GenericRepository[CacheEntry]) *MongoCacheService {
	return &MongoCacheService{repo: repo}
}

func (s *MongoCacheService) Set(ctx context.Context, key string, data []byte, tags []string, duration time.Duration) error {
	now := time.Now().Unix()

	entry := CacheEntry{
		Key:       key,
		Data:      data,
		Tags:      tags,
		TTL:       time.Now().Add(duration).Unix(),
		CreatedAt: now,
	}

	return s.repo.SaveOrUpdate(entry)
}

func (s *MongoCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.repo.FindById(key)
	if err != nil {
		return nil, nil
	}

	if entry.IsExpired() {
		_ = s.repo.Delete(key)
		return nil, nil
	}

	return entry.Data, nil
}

func (s *MongoCacheService) Invalidate(ctx context.Context, tags ...string) error {
	// An equality match on an array field matches any entry whose tag list
	// contains the value.
	for _, tag := range tags {
		if err := s.repo.DeleteByFilters(map[string]interface{}{"tags": tag}); err != nil {
			return err
		}
	}
	return nil
}
