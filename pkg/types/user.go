package types

import "time"

// User preference theme values.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Preferences holds per-user display and notification settings, persisted as
// a nested JSON value on the users table.
type Preferences struct {
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// User is one account profile.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Record converts the user to a store record. Preferences become a nested
// JSON value.
func (u User) Record() Record {
	r := Record{
		"name":  u.Name,
		"email": u.Email,
		"preferences": map[string]any{
			"theme":                 u.Preferences.Theme,
			"notifications_enabled": u.Preferences.NotificationsEnabled,
		},
	}
	if u.ID != "" {
		r[ColID] = u.ID
	}
	if !u.CreatedAt.IsZero() {
		r[ColCreatedAt] = u.CreatedAt
	}
	if !u.UpdatedAt.IsZero() {
		r[ColUpdatedAt] = u.UpdatedAt
	}
	return r
}

// UserFromRecord builds a User from a store record.
func UserFromRecord(r Record) User {
	u := User{
		ID:        r.String(ColID),
		Name:      r.String("name"),
		Email:     r.String("email"),
		CreatedAt: r.Time(ColCreatedAt),
		UpdatedAt: r.Time(ColUpdatedAt),
	}
	if prefs, ok := r["preferences"].(map[string]any); ok {
		u.Preferences.Theme, _ = prefs["theme"].(string)
		u.Preferences.NotificationsEnabled, _ = prefs["notifications_enabled"].(bool)
	}
	return u
}
