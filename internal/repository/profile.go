package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists generation profiles.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, profile_id, name, classes, version, created_at, updated_at, deleted`

// upsertProfileQuery applies last-write-wins on version. version is assigned
// last because MySQL evaluates the assignments left to right.
const upsertProfileQuery = `
	INSERT INTO profiles (user_id, profile_id, name, classes, version, deleted)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		name       = IF(VALUES(version) > version, VALUES(name), name),
		classes    = IF(VALUES(version) > version, VALUES(classes), classes),
		deleted    = IF(VALUES(version) > version, VALUES(deleted), deleted),
		updated_at = IF(VALUES(version) > version, CURRENT_TIMESTAMP, updated_at),
		version    = IF(VALUES(version) > version, VALUES(version), version)`

// Upsert inserts a profile or, if one with the same profile_id exists, replaces
// it only when the incoming version is newer. It reports whether the row was
// written.
func (r *ProfileRepository) Upsert(ctx context.Context, p *model.Profile) (bool, error) {
	classes, err := encodeClasses(p.Classes)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx, upsertProfileQuery,
		p.UserID, p.ProfileID, p.Name, classes, p.Version, p.Deleted,
	)
	if err != nil {
		return false, err
	}

	// MySQL reports 0 affected rows when ON DUPLICATE KEY UPDATE changed nothing.
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get returns a live (not deleted) profile.
func (r *ProfileRepository) Get(ctx context.Context, userID int64, profileID string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles
		WHERE user_id = ? AND profile_id = ? AND deleted = FALSE`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID, profileID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// ListByUser returns live profiles, most recently updated first.
func (r *ProfileRepository) ListByUser(ctx context.Context, userID int64) ([]model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles
		WHERE user_id = ? AND deleted = FALSE ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}

// SoftDelete marks a profile deleted and bumps its version.
func (r *ProfileRepository) SoftDelete(ctx context.Context, userID int64, profileID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET deleted = TRUE, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND profile_id = ? AND deleted = FALSE`,
		userID, profileID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*model.Profile, error) {
	var (
		p       model.Profile
		classes []byte
	)
	if err := row.Scan(
		&p.ID, &p.UserID, &p.ProfileID, &p.Name, &classes,
		&p.Version, &p.CreatedAt, &p.UpdatedAt, &p.Deleted,
	); err != nil {
		return nil, err
	}

	var err error
	if p.Classes, err = decodeClasses(classes); err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.ProfileID, err)
	}
	return &p, nil
}

func encodeClasses(classes []model.ClassSpec) ([]byte, error) {
	if classes == nil {
		classes = []model.ClassSpec{}
	}
	return json.Marshal(classes)
}

func decodeClasses(data []byte) ([]model.ClassSpec, error) {
	var classes []model.ClassSpec
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, fmt.Errorf("decoding classes: %w", err)
	}
	return classes, nil
}
