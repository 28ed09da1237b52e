package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"resume-turns-be/internal/entity"
	"resume-turns-be/internal/repository/contract"
	"resume-turns-be/internal/repository/specification"
	"resume-turns-be/internal/repository/unitofwork"
)

// VersionStore is a process-local stand-in for the versions table. It
// understands the specifications the version service uses and rejects any
// other. Writes are immediate: Begin/Commit/Rollback give no isolation.
type VersionStore struct {
	mu       sync.RWMutex
	versions map[string]*entity.Version
	now      func() time.Time
}

func NewVersionStore() *VersionStore {
	return &VersionStore{
		versions: make(map[string]*entity.Version),
		now:      time.Now,
	}
}

// NewRepositoryFactory hands out units of work backed by store.
func NewRepositoryFactory(store *VersionStore) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

type repositoryFactory struct {
	store *VersionStore
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

type unitOfWork struct {
	store  *VersionStore
	active bool
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	u.active = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}
	u.active = false
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.active {
		return fmt.Errorf("no transaction to rollback")
	}
	u.active = false
	return nil
}

func (u *unitOfWork) VersionRepository() contract.VersionRepository {
	return u.store
}

var _ contract.VersionRepository = (*VersionStore)(nil)

func (s *VersionStore) Create(ctx context.Context, version *entity.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := version.Id.String()
	if _, exists := s.versions[key]; exists {
		return fmt.Errorf("version %s already exists", key)
	}
	now := s.now()
	version.CreatedAt = now
	version.UpdatedAt = now
	s.versions[key] = copyVersion(version)
	return nil
}

func (s *VersionStore) Update(ctx context.Context, version *entity.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := version.Id.String()
	stored, ok := s.versions[key]
	if !ok {
		return fmt.Errorf("version %s does not exist", key)
	}
	version.CreatedAt = stored.CreatedAt
	version.UpdatedAt = s.now()
	s.versions[key] = copyVersion(version)
	return nil
}

func (s *VersionStore) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Version, error) {
	found, err := s.FindAll(ctx, specs...)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (s *VersionStore) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Version, error) {
	s.mu.RLock()
	all := make([]*entity.Version, 0, len(s.versions))
	for _, v := range s.versions {
		all = append(all, copyVersion(v))
	}
	s.mu.RUnlock()

	// stable base order, like a primary-key scan
	sort.Slice(all, func(i, j int) bool { return all[i].Id.String() < all[j].Id.String() })

	var page *specification.Pagination
	stripPayload := false
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			all = filter(all, func(v *entity.Version) bool { return v.Id == sp.ID })
		case specification.OwnedBy:
			if sp.UserId != nil {
				all = filter(all, func(v *entity.Version) bool { return v.UserId != nil && *v.UserId == *sp.UserId })
			}
		case specification.OrderBy:
			if err := orderBy(all, sp); err != nil {
				return nil, err
			}
		case specification.Pagination:
			p := sp
			page = &p
		case specification.WithoutPayload:
			stripPayload = true
		default:
			return nil, fmt.Errorf("memory store: unsupported specification %T", spec)
		}
	}

	if page != nil {
		all = paginate(all, *page)
	}
	if stripPayload {
		for _, v := range all {
			v.Payload = nil
		}
	}
	return all, nil
}

func (s *VersionStore) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, err := s.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(found)), nil
}

func filter(in []*entity.Version, keep func(*entity.Version) bool) []*entity.Version {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func orderBy(vs []*entity.Version, o specification.OrderBy) error {
	var less func(a, b *entity.Version) bool
	switch o.Field {
	case "created_at":
		less = func(a, b *entity.Version) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updated_at":
		less = func(a, b *entity.Version) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "name":
		less = func(a, b *entity.Version) bool { return a.Name < b.Name }
	default:
		return fmt.Errorf("memory store: cannot order by %q", o.Field)
	}
	sort.SliceStable(vs, func(i, j int) bool {
		if o.Desc {
			return less(vs[j], vs[i])
		}
		return less(vs[i], vs[j])
	})
	return nil
}

func paginate(vs []*entity.Version, p specification.Pagination) []*entity.Version {
	if p.Offset >= len(vs) {
		return []*entity.Version{}
	}
	vs = vs[p.Offset:]
	if p.Limit > 0 && p.Limit < len(vs) {
		vs = vs[:p.Limit]
	}
	return vs
}
