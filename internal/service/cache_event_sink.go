package service

import (
	"context"

	"resume-turns-be/internal/dto"
	"resume-turns-be/internal/repository/memory"
)

type cacheEventSink struct {
	cache *memory.VersionCache
}

// NewCacheEventSink drops cached versions that a save or rename made stale,
// including writes done by other instances once their events arrive.
func NewCacheEventSink(cache *memory.VersionCache) VersionEventSink {
	return &cacheEventSink{cache: cache}
}

func (s *cacheEventSink) HandleVersionEvent(ctx context.Context, event dto.VersionEvent) error {
	switch event.Type {
	case dto.VersionSaved, dto.VersionRenamed:
		s.cache.Delete(event.VersionId)
	}
	return nil
}
