package memory

import (
	"time"

	"resume-turns-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// VersionCache keeps recently read versions in memory. Entries are copies;
// callers may modify what they get back. A nil *VersionCache caches nothing.
type VersionCache struct {
	cache *cache.Cache
}

func NewVersionCache(ttl time.Duration) *VersionCache {
	return &VersionCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *VersionCache) Save(version *entity.Version) {
	if r == nil {
		return
	}
	r.cache.Set(version.Id.String(), copyVersion(version), cache.DefaultExpiration)
}

func (r *VersionCache) Get(id uuid.UUID) (*entity.Version, bool) {
	if r == nil {
		return nil, false
	}
	if x, found := r.cache.Get(id.String()); found {
		return copyVersion(x.(*entity.Version)), true
	}
	return nil, false
}

func (r *VersionCache) Delete(id uuid.UUID) {
	if r == nil {
		return
	}
	r.cache.Delete(id.String())
}

func copyVersion(v *entity.Version) *entity.Version {
	out := *v
	out.Payload = append([]byte(nil), v.Payload...)
	if v.UserId != nil {
		uid := *v.UserId
		out.UserId = &uid
	}
	return &out
}
