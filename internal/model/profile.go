package model

import "time"

// Profile is a saved, named generator configuration owned by a user.
type Profile struct {
	ID        int64
	UserID    int64
	ProfileID string
	Name      string
	Classes   []ClassSpec
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
}

// ProfileRequest creates or replaces a profile.
// Version is optional on update; when zero the stored version is bumped by one.
type ProfileRequest struct {
	Name    string      `json:"name"`
	Classes []ClassSpec `json:"classes"`
	Version int         `json:"version"`
}

// ProfileResponse is the API view of a profile.
type ProfileResponse struct {
	ProfileID string      `json:"profile_id"`
	Name      string      `json:"name"`
	Classes   []ClassSpec `json:"classes"`
	Version   int         `json:"version"`
	UpdatedAt time.Time   `json:"updated_at"`
}
