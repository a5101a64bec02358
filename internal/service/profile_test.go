package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/generator"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/model"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/repository"
	"github.com/google/uuid"
)

type profileKey struct {
	userID    int64
	profileID string
}

// memProfiles mimics the last-write-wins upsert of ProfileRepository. Like
// the updated_at column, the stored timestamp ticks on every write.
type memProfiles struct {
	rows  map[profileKey]model.Profile
	clock time.Time
}

func newMemProfiles() *memProfiles {
	return &memProfiles{
		rows:  make(map[profileKey]model.Profile),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memProfiles) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memProfiles) Upsert(_ context.Context, p *model.Profile) (bool, error) {
	key := profileKey{p.UserID, p.ProfileID}
	existing, ok := m.rows[key]
	if ok && p.Version <= existing.Version {
		return false, nil
	}
	stored := *p
	stored.UpdatedAt = m.tick()
	if ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = stored.UpdatedAt
	}
	m.rows[key] = stored
	return true, nil
}

func (m *memProfiles) Get(_ context.Context, userID int64, profileID string) (*model.Profile, error) {
	p, ok := m.rows[profileKey{userID, profileID}]
	if !ok || p.Deleted {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

func (m *memProfiles) ListByUser(_ context.Context, userID int64) ([]model.Profile, error) {
	var out []model.Profile
	for k, p := range m.rows {
		if k.userID == userID && !p.Deleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProfiles) SoftDelete(_ context.Context, userID int64, profileID string) error {
	key := profileKey{userID, profileID}
	p, ok := m.rows[key]
	if !ok || p.Deleted {
		return repository.ErrProfileNotFound
	}
	p.Deleted = true
	p.Version++
	p.UpdatedAt = m.tick()
	m.rows[key] = p
	return nil
}

func newTestProfileService() *ProfileService {
	return NewProfileService(newMemProfiles(), NewGeneratorService(256))
}

var pinClasses = []model.ClassSpec{{Class: generator.ClassDigits, Length: 6}}

func TestCreateProfile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     model.ProfileRequest
		wantErr error
	}{
		{name: "empty name", req: model.ProfileRequest{Name: " ", Classes: pinClasses}, wantErr: ErrNameRequired},
		{name: "long name", req: model.ProfileRequest{Name: strings.Repeat("n", 101), Classes: pinClasses}, wantErr: ErrNameTooLong},
		{name: "no classes", req: model.ProfileRequest{Name: "pin"}, wantErr: ErrClassesRequired},
		{name: "unknown class", req: model.ProfileRequest{Name: "pin", Classes: []model.ClassSpec{{Class: "hex", Length: 4}}}, wantErr: ErrUnknownClass},
	}

	svc := newTestProfileService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfileLifecycle(t *testing.T) {
	svc := newTestProfileService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, model.ProfileRequest{Name: " pin ", Classes: pinClasses})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if _, err := uuid.Parse(created.ProfileID); err != nil {
		t.Errorf("Create() profile_id %q is not a UUID: %v", created.ProfileID, err)
	}
	if created.Name != "pin" || created.Version != 1 {
		t.Errorf("Create() = %+v", created)
	}

	resp, err := svc.Generate(ctx, 1, created.ProfileID)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if resp.Length != 6 || strings.Trim(resp.Password, generator.DigitChars) != "" {
		t.Errorf("Generate() = %+v, want 6 digits", resp)
	}

	updated, err := svc.Update(ctx, 1, created.ProfileID, model.ProfileRequest{
		Name:    "pin",
		Classes: []model.ClassSpec{{Class: generator.ClassDigits, Length: 8}},
	})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("Update() version = %d, want 2", updated.Version)
	}

	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Classes[0].Length != 8 {
		t.Errorf("List() = %+v", list)
	}

	if err := svc.Delete(ctx, 1, created.ProfileID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, err := svc.Generate(ctx, 1, created.ProfileID); err != ErrProfileNotFound {
		t.Errorf("Generate() after delete error = %v, want %v", err, ErrProfileNotFound)
	}
	if err := svc.Delete(ctx, 1, created.ProfileID); err != ErrProfileNotFound {
		t.Errorf("Delete() twice error = %v, want %v", err, ErrProfileNotFound)
	}
}

func TestUpdateProfile_StaleVersion(t *testing.T) {
	svc := newTestProfileService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, model.ProfileRequest{Name: "pin", Classes: pinClasses})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	_, err = svc.Update(ctx, 1, created.ProfileID, model.ProfileRequest{Name: "pin", Classes: pinClasses, Version: 1})
	if err != ErrVersionConflict {
		t.Errorf("Update() error = %v, want %v", err, ErrVersionConflict)
	}

	if _, err := svc.Update(ctx, 1, created.ProfileID, model.ProfileRequest{Name: "pin", Classes: pinClasses, Version: 5}); err != nil {
		t.Errorf("Update() with newer version unexpected error: %v", err)
	}
}

func TestProfile_VersionRange(t *testing.T) {
	svc := newTestProfileService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, model.ProfileRequest{Name: "pin", Classes: pinClasses})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		version int
	}{
		{name: "negative", version: -1},
		{name: "past client cap", version: MaxClientVersion + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := model.ProfileRequest{Name: "pin", Classes: pinClasses, Version: tt.version}
			if _, err := svc.Create(ctx, 1, req); !errors.Is(err, ErrInvalidVersion) {
				t.Errorf("Create() error = %v, want %v", err, ErrInvalidVersion)
			}
			if _, err := svc.Update(ctx, 1, created.ProfileID, req); !errors.Is(err, ErrInvalidVersion) {
				t.Errorf("Update() error = %v, want %v", err, ErrInvalidVersion)
			}
		})
	}

	atCap, err := svc.Update(ctx, 1, created.ProfileID, model.ProfileRequest{Name: "pin", Classes: pinClasses, Version: MaxClientVersion})
	if err != nil {
		t.Fatalf("Update() at cap unexpected error: %v", err)
	}
	if atCap.Version != MaxClientVersion {
		t.Errorf("Update() version = %d, want %d", atCap.Version, MaxClientVersion)
	}

	// Server-side bumps may continue past the client cap.
	bumped, err := svc.Update(ctx, 1, created.ProfileID, model.ProfileRequest{Name: "pin", Classes: pinClasses})
	if err != nil {
		t.Fatalf("Update() past cap unexpected error: %v", err)
	}
	if bumped.Version != MaxClientVersion+1 {
		t.Errorf("Update() version = %d, want %d", bumped.Version, MaxClientVersion+1)
	}
}

func TestProfile_UpdatedAtFromStore(t *testing.T) {
	svc := newTestProfileService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, model.ProfileRequest{Name: "pin", Classes: pinClasses})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if created.UpdatedAt.IsZero() {
		t.Fatal("Create() returned a zero updated_at")
	}

	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(list) != 1 || !list[0].UpdatedAt.Equal(created.UpdatedAt) {
		t.Errorf("List() updated_at = %+v, want %v", list, created.UpdatedAt)
	}

	updated, err := svc.Update(ctx, 1, created.ProfileID, model.ProfileRequest{Name: "pin", Classes: pinClasses})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("Update() updated_at = %v, want after %v", updated.UpdatedAt, created.UpdatedAt)
	}

	list, err = svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(list) != 1 || !list[0].UpdatedAt.Equal(updated.UpdatedAt) {
		t.Errorf("List() updated_at = %+v, want %v", list, updated.UpdatedAt)
	}
}

func TestProfile_OtherUser(t *testing.T) {
	svc := newTestProfileService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, model.ProfileRequest{Name: "pin", Classes: pinClasses})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if _, err := svc.Generate(ctx, 2, created.ProfileID); err != ErrProfileNotFound {
		t.Errorf("Generate() for other user error = %v, want %v", err, ErrProfileNotFound)
	}
	if _, err := svc.Update(ctx, 2, created.ProfileID, model.ProfileRequest{Name: "x", Classes: pinClasses}); err != ErrProfileNotFound {
		t.Errorf("Update() for other user error = %v, want %v", err, ErrProfileNotFound)
	}
}

func TestToProfileResponse_NilClasses(t *testing.T) {
	resp := toProfileResponse(model.Profile{ProfileID: "p"})
	if resp.Classes == nil {
		t.Fatal("expected non-nil empty classes slice")
	}
}
