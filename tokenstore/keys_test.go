package tokenstore

import (
	"errors"
	"testing"
)

func TestElevationKeyLayout(t *testing.T) {
	keys := NewKeys("", "")

	key, err := keys.Elevation("123456789012345678")
	if err != nil {
		t.Fatalf("elevation key failed: %v", err)
	}
	if key != "admin-session-123456789012345678" {
		t.Fatalf("unexpected elevation key %q", key)
	}

	if keys.Primary() != "discord_token" {
		t.Fatalf("unexpected primary key %q", keys.Primary())
	}
}

func TestElevationKeyRejectsUnsafeGuildIDs(t *testing.T) {
	keys := NewKeys("", "")

	cases := []string{
		"",
		"abc",
		"42x",
		"42 ",
		"admin-session-42",
		"42:extra",
		"123456789012345678901", // 21 digits
	}

	for _, id := range cases {
		if _, err := keys.Elevation(id); !errors.Is(err, ErrInvalidGuildID) {
			t.Fatalf("guild id %q: expected ErrInvalidGuildID, got %v", id, err)
		}
	}
}

func TestGuildFromKeyRoundTrip(t *testing.T) {
	keys := NewKeys("", "")

	key, err := keys.Elevation("42")
	if err != nil {
		t.Fatalf("elevation key failed: %v", err)
	}

	guildID, ok := keys.GuildFromKey(key)
	if !ok || guildID != "42" {
		t.Fatalf("expected guild 42, got %q ok=%v", guildID, ok)
	}

	if _, ok := keys.GuildFromKey("discord_token"); ok {
		t.Fatal("primary key must not decode as an elevation key")
	}
}
