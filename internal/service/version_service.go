package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-turns-be/internal/dto"
	"resume-turns-be/internal/entity"
	"resume-turns-be/internal/pkg/logger"
	"resume-turns-be/internal/repository/memory"
	"resume-turns-be/internal/repository/specification"
	"resume-turns-be/internal/repository/unitofwork"
	"resume-turns-be/pkg/resume"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrVersionNotFound = errors.New("version not found")
	ErrInvalidPayload  = errors.New("invalid payload")
)

const versionModule = "VERSION_SERVICE"

type IVersionService interface {
	List(ctx context.Context, userId *uuid.UUID, limit, offset int) ([]*dto.VersionShortResponse, error)
	Create(ctx context.Context, userId *uuid.UUID, req *dto.CreateVersionRequest) (*dto.VersionResponse, error)
	Show(ctx context.Context, userId *uuid.UUID, id uuid.UUID) (*dto.VersionResponse, error)
	Rename(ctx context.Context, userId *uuid.UUID, req *dto.RenameVersionRequest) (*dto.VersionShortResponse, error)
	Replace(ctx context.Context, userId *uuid.UUID, req *dto.ReplaceVersionRequest) (*dto.VersionResponse, error)
}

type versionService struct {
	uowFactory       unitofwork.RepositoryFactory
	cache            *memory.VersionCache
	publisherService IPublisherService
	logger           logger.ILogger
	validate         *validator.Validate
	now              func() time.Time
}

func NewVersionService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.VersionCache,
	publisherService IPublisherService,
	logger logger.ILogger,
) IVersionService {
	return &versionService{
		uowFactory:       uowFactory,
		cache:            cache,
		publisherService: publisherService,
		logger:           logger,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		now:              time.Now,
	}
}

func (s *versionService) List(ctx context.Context, userId *uuid.UUID, limit, offset int) ([]*dto.VersionShortResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.WithoutPayload{},
		specification.OwnedBy{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	versions, err := uow.VersionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.VersionShortResponse, 0, len(versions))
	for _, v := range versions {
		short := toShortResponse(v)
		result = append(result, &short)
	}
	return result, nil
}

func (s *versionService) Create(ctx context.Context, userId *uuid.UUID, req *dto.CreateVersionRequest) (*dto.VersionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultVersionName(s.now())
	}

	payload := pickPayload(req.Payload, req.Data)
	if payload == nil {
		payload = defaultVersionPayload()
	}
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}

	version := entity.Version{
		Id:      uuid.New(),
		UserId:  userId,
		Name:    name,
		Payload: payload,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.VersionRepository().Create(ctx, &version); err != nil {
		return nil, err
	}

	s.cache.Save(&version)
	s.publish(ctx, dto.VersionCreated, &version)

	s.logger.Info(versionModule, "Version created", map[string]interface{}{
		"version_id": version.Id.String(),
		"name":       version.Name,
	})

	res := toResponse(&version)
	return &res, nil
}

func (s *versionService) Show(ctx context.Context, userId *uuid.UUID, id uuid.UUID) (*dto.VersionResponse, error) {
	if cached, ok := s.cache.Get(id); ok && visibleTo(cached, userId) {
		res := toResponse(cached)
		return &res, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	version, err := uow.VersionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, ErrVersionNotFound
	}

	s.cache.Save(version)
	res := toResponse(version)
	return &res, nil
}

func (s *versionService) Rename(ctx context.Context, userId *uuid.UUID, req *dto.RenameVersionRequest) (*dto.VersionShortResponse, error) {
	var version *entity.Version
	err := s.update(ctx, userId, req.Id, func(v *entity.Version) {
		v.Name = strings.TrimSpace(req.Name)
		version = v
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, dto.VersionRenamed, version)

	res := toShortResponse(version)
	return &res, nil
}

func (s *versionService) Replace(ctx context.Context, userId *uuid.UUID, req *dto.ReplaceVersionRequest) (*dto.VersionResponse, error) {
	payload := pickPayload(req.Payload, req.Data)
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}

	var version *entity.Version
	err := s.update(ctx, userId, req.Id, func(v *entity.Version) {
		v.Payload = payload
		version = v
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, dto.VersionSaved, version)

	res := toResponse(version)
	return &res, nil
}

// update loads, mutates and stores one version inside a transaction.
func (s *versionService) update(ctx context.Context, userId *uuid.UUID, id uuid.UUID, mutate func(*entity.Version)) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	version, err := uow.VersionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserId: userId},
	)
	if err != nil {
		return err
	}
	if version == nil {
		return ErrVersionNotFound
	}

	mutate(version)
	if err := uow.VersionRepository().Update(ctx, version); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.cache.Save(version)
	return nil
}

// validatePayload checks the stored-conversation shape. Keys it does not
// know about are allowed.
func (s *versionService) validatePayload(payload json.RawMessage) error {
	if payload == nil {
		return fmt.Errorf("%w: payload or data is required", ErrInvalidPayload)
	}

	var snapshot dto.PayloadSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := s.validate.Struct(snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func (s *versionService) publish(ctx context.Context, eventType string, v *entity.Version) {
	event := dto.VersionEvent{
		Type:      eventType,
		VersionId: v.Id,
		Name:      v.Name,
		At:        s.now().UTC(),
	}

	var position struct {
		ActiveStateId *string `json:"activeStateId"`
		Step          int     `json:"step"`
	}
	if err := json.Unmarshal(v.Payload, &position); err == nil {
		if position.ActiveStateId != nil {
			event.StateId = *position.ActiveStateId
		}
		event.Step = position.Step
	}

	if err := s.publisherService.Publish(ctx, event); err != nil {
		s.logger.Warn(versionModule, "Failed to publish version event", map[string]interface{}{
			"version_id": v.Id.String(),
			"type":       eventType,
			"error":      err.Error(),
		})
	}
}

func defaultVersionName(now time.Time) string {
	return "user-" + now.UTC().Format("060102-150405")
}

// defaultVersionPayload is the conversation handed out with a new version:
// the seed résumé and an empty history.
func defaultVersionPayload() json.RawMessage {
	payload, _ := json.Marshal(map[string]interface{}{
		"resume":          resume.Seed(),
		"states":          []interface{}{},
		"activeStateId":   nil,
		"autosaveStateId": nil,
		"userTurns":       []interface{}{},
		"step":            0,
	})
	return payload
}

// pickPayload prefers payload over data; JSON null counts as absent.
func pickPayload(payload, data json.RawMessage) json.RawMessage {
	for _, raw := range []json.RawMessage{payload, data} {
		trimmed := strings.TrimSpace(string(raw))
		if trimmed != "" && trimmed != "null" {
			return raw
		}
	}
	return nil
}

func visibleTo(v *entity.Version, userId *uuid.UUID) bool {
	if userId == nil {
		return true
	}
	return v.UserId != nil && *v.UserId == *userId
}

func toShortResponse(v *entity.Version) dto.VersionShortResponse {
	return dto.VersionShortResponse{
		Id:        v.Id,
		Name:      v.Name,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toResponse(v *entity.Version) dto.VersionResponse {
	return dto.VersionResponse{
		VersionShortResponse: toShortResponse(v),
		Payload:              v.Payload,
	}
}
