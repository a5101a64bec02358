package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/model"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/repository"
	"github.com/google/uuid"
)

const (
	maxProfileName = 100

	// MaxClientVersion caps the version a client may set explicitly. Server
	// bumps may go past it; the column is BIGINT.
	MaxClientVersion = math.MaxInt32
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrNameTooLong     = errors.New("name must be at most 100 characters")
	ErrClassesRequired = errors.New("at least one class is required")
	ErrProfileNotFound = errors.New("profile not found")
	ErrVersionConflict = errors.New("a newer version of this profile exists")
	ErrInvalidVersion  = errors.New("version out of range")
)

// ProfileStore is the persistence ProfileService needs.
type ProfileStore interface {
	Upsert(ctx context.Context, p *model.Profile) (bool, error)
	Get(ctx context.Context, userID int64, profileID string) (*model.Profile, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Profile, error)
	SoftDelete(ctx context.Context, userID int64, profileID string) error
}

// ProfileService manages saved generator configurations.
type ProfileService struct {
	store ProfileStore
	gen   *GeneratorService
}

// NewProfileService creates a new ProfileService.
func NewProfileService(store ProfileStore, gen *GeneratorService) *ProfileService {
	return &ProfileService{store: store, gen: gen}
}

// Create stores a new profile under a server-assigned ID.
func (s *ProfileService) Create(ctx context.Context, userID int64, req model.ProfileRequest) (model.ProfileResponse, error) {
	if err := s.validate(req); err != nil {
		return model.ProfileResponse{}, err
	}

	p := model.Profile{
		UserID:    userID,
		ProfileID: uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Classes:   req.Classes,
		Version:   1,
	}
	if _, err := s.store.Upsert(ctx, &p); err != nil {
		return model.ProfileResponse{}, err
	}

	slog.Info("profile created", "user_id", userID, "profile_id", p.ProfileID)
	return s.reload(ctx, userID, p.ProfileID)
}

// Update replaces a profile. A zero request version means "next version";
// anything not newer than the stored version is rejected.
func (s *ProfileService) Update(ctx context.Context, userID int64, profileID string, req model.ProfileRequest) (model.ProfileResponse, error) {
	if err := s.validate(req); err != nil {
		return model.ProfileResponse{}, err
	}

	existing, err := s.get(ctx, userID, profileID)
	if err != nil {
		return model.ProfileResponse{}, err
	}

	version := req.Version
	if version == 0 {
		version = existing.Version + 1
	}

	p := model.Profile{
		UserID:    userID,
		ProfileID: profileID,
		Name:      strings.TrimSpace(req.Name),
		Classes:   req.Classes,
		Version:   version,
	}
	written, err := s.store.Upsert(ctx, &p)
	if err != nil {
		return model.ProfileResponse{}, err
	}
	if !written {
		return model.ProfileResponse{}, ErrVersionConflict
	}

	return s.reload(ctx, userID, profileID)
}

// reload returns the stored row so timestamps come from the database.
func (s *ProfileService) reload(ctx context.Context, userID int64, profileID string) (model.ProfileResponse, error) {
	p, err := s.get(ctx, userID, profileID)
	if err != nil {
		return model.ProfileResponse{}, err
	}
	return toProfileResponse(*p), nil
}

// Delete soft-deletes a profile.
func (s *ProfileService) Delete(ctx context.Context, userID int64, profileID string) error {
	err := s.store.SoftDelete(ctx, userID, profileID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return ErrProfileNotFound
	}
	return err
}

// List returns the user's live profiles.
func (s *ProfileService) List(ctx context.Context, userID int64) ([]model.ProfileResponse, error) {
	profiles, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.ProfileResponse, len(profiles))
	for i, p := range profiles {
		result[i] = toProfileResponse(p)
	}
	return result, nil
}

// Generate produces a password from a stored profile.
func (s *ProfileService) Generate(ctx context.Context, userID int64, profileID string) (model.GenerateResponse, error) {
	p, err := s.get(ctx, userID, profileID)
	if err != nil {
		return model.GenerateResponse{}, err
	}
	return s.gen.GenerateFrom(p.Classes)
}

func (s *ProfileService) get(ctx context.Context, userID int64, profileID string) (*model.Profile, error) {
	p, err := s.store.Get(ctx, userID, profileID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

func (s *ProfileService) validate(req model.ProfileRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxProfileName {
		return ErrNameTooLong
	}
	if len(req.Classes) == 0 {
		return ErrClassesRequired
	}
	if req.Version < 0 || req.Version > MaxClientVersion {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidVersion, req.Version, MaxClientVersion)
	}
	_, err := s.gen.Validate(req.Classes)
	return err
}

func toProfileResponse(p model.Profile) model.ProfileResponse {
	classes := p.Classes
	if classes == nil {
		classes = []model.ClassSpec{}
	}
	return model.ProfileResponse{
		ProfileID: p.ProfileID,
		Name:      p.Name,
		Classes:   classes,
		Version:   p.Version,
		UpdatedAt: p.UpdatedAt,
	}
}
