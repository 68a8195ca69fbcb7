package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPreferencesRoundTrip(t *testing.T) {
	u := User{
		Name:  "Ada",
		Email: "ada@example.com",
		Preferences: Preferences{
			Theme:                ThemeDark,
			NotificationsEnabled: true,
		},
	}

	rec := u.Record()
	prefs, ok := rec["preferences"].(map[string]any)
	require.True(t, ok, "preferences should be a nested value")
	assert.Equal(t, ThemeDark, prefs["theme"])

	back := UserFromRecord(rec)
	assert.Equal(t, u.Preferences, back.Preferences)
	assert.Equal(t, u.Email, back.Email)
}

func TestUserFromRecordWithoutPreferences(t *testing.T) {
	back := UserFromRecord(Record{"name": "Ada", "email": "ada@example.com"})
	assert.Equal(t, Preferences{}, back.Preferences)
}
