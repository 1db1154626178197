package platform

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/youtube/v3"
)

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		duration string
		expected int
	}{
		{"PT45S", 45},
		{"PT1M30S", 90},
		{"PT2H15M30S", 8130},
		{"PT1H", 3600},
		{"PT3M", 180},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		t.Run(tt.duration, func(t *testing.T) {
			if got := parseDurationSeconds(tt.duration); got != tt.expected {
				t.Errorf("parseDurationSeconds(%q) = %d, want %d", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestBestThumbnail(t *testing.T) {
	tests := []struct {
		name     string
		details  *youtube.ThumbnailDetails
		expected string
	}{
		{
			name: "High preferred",
			details: &youtube.ThumbnailDetails{
				High:    &youtube.Thumbnail{Url: "high.jpg"},
				Medium:  &youtube.Thumbnail{Url: "medium.jpg"},
				Default: &youtube.Thumbnail{Url: "default.jpg"},
			},
			expected: "high.jpg",
		},
		{
			name: "Falls back to medium",
			details: &youtube.ThumbnailDetails{
				Medium:  &youtube.Thumbnail{Url: "medium.jpg"},
				Default: &youtube.Thumbnail{Url: "default.jpg"},
			},
			expected: "medium.jpg",
		},
		{
			name:     "Nothing available",
			details:  &youtube.ThumbnailDetails{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bestThumbnail(tt.details); got != tt.expected {
				t.Errorf("bestThumbnail() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestVideoSignal(t *testing.T) {
	item := &youtube.Video{
		Id: "abc123",
		Snippet: &youtube.VideoSnippet{
			Title:        "Fresh pasta at home",
			Description:  "Full recipe below.",
			ChannelId:    "chan1",
			ChannelTitle: "Home Cooking",
			Tags:         []string{"cooking", "pasta"},
			PublishedAt:  "2025-06-01T10:00:00Z",
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: "PT4M13S"},
		Statistics:     &youtube.VideoStatistics{ViewCount: 12345},
	}

	v := videoSignal(item)
	if v.ID != "abc123" || v.Title != "Fresh pasta at home" {
		t.Errorf("unexpected id/title: %q %q", v.ID, v.Title)
	}
	if v.DurationSeconds != 253 {
		t.Errorf("DurationSeconds = %d, want 253", v.DurationSeconds)
	}
	if v.ViewCount != 12345 {
		t.Errorf("ViewCount = %d, want 12345", v.ViewCount)
	}
	if v.PublishedAt.IsZero() {
		t.Error("PublishedAt not parsed")
	}
	if len(v.Tags) != 2 {
		t.Errorf("Tags = %v, want 2 entries", v.Tags)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token.json")

	original := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour), // expired but refreshable
	}
	if err := saveToken(tokenFile, original); err != nil {
		t.Fatalf("saveToken() failed: %v", err)
	}

	loaded, err := tokenFromFile(tokenFile)
	if err != nil {
		t.Fatalf("tokenFromFile() failed: %v", err)
	}
	if loaded.RefreshToken != original.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, original.RefreshToken)
	}
}

func TestTokenFromFileMissing(t *testing.T) {
	if _, err := tokenFromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("tokenFromFile() on a missing file should fail")
	}
}

func TestTokenFromFileExpiredWithoutRefresh(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token.json")
	expired := &oauth2.Token{
		AccessToken: "access",
		Expiry:      time.Now().Add(-time.Hour),
	}
	if err := saveToken(tokenFile, expired); err != nil {
		t.Fatalf("saveToken() failed: %v", err)
	}

	if _, err := tokenFromFile(tokenFile); err == nil {
		t.Error("expired token without refresh token should be rejected")
	}
}
