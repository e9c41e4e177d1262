package version

import (
	"testing"
	"time"
)

func TestIsNewer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		latest  string
		current string
		want    bool
	}{
		{"patch bump", "v0.2.1", "v0.2.0", true},
		{"minor bump", "v0.3.0", "v0.2.9", true},
		{"major bump", "v2.0.0", "v1.9.9", true},
		{"equal", "v1.2.3", "v1.2.3", false},
		{"older", "v1.2.2", "v1.2.3", false},
		{"no v prefix", "1.1.0", "1.0.0", true},
		{"release beats prerelease", "v1.0.0", "v1.0.0-rc1", true},
		{"prerelease loses to release", "v1.0.0-rc1", "v1.0.0", false},
		{"garbage latest", "not-a-version", "v1.0.0", false},
		{"garbage current", "v1.0.0", "???", false},
		{"short form", "v1.1", "v1.0.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNewer(tt.latest, tt.current); got != tt.want {
				t.Fatalf("isNewer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
			}
		})
	}
}

func TestIsDevelopmentVersion(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"", "unknown", "devel", "(devel)", "devel+abc123"} {
		if !isDevelopmentVersion(v) {
			t.Errorf("isDevelopmentVersion(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"v1.0.0", "0.2.1"} {
		if isDevelopmentVersion(v) {
			t.Errorf("isDevelopmentVersion(%q) = true, want false", v)
		}
	}
}

func TestIsCacheValid(t *testing.T) {
	t.Parallel()

	fresh := &CacheEntry{
		LatestVersion:  "v0.3.0",
		CurrentVersion: "v0.2.0",
		CheckedAt:      time.Now(),
		HasUpdate:      true,
	}
	if !IsCacheValid(fresh, "v0.2.0") {
		t.Error("fresh cache for the same version should be valid")
	}
	if IsCacheValid(fresh, "v0.3.0") {
		t.Error("cache written for another running version should be invalid")
	}

	stale := &CacheEntry{
		CurrentVersion: "v0.2.0",
		CheckedAt:      time.Now().Add(-4 * time.Hour),
	}
	if IsCacheValid(stale, "v0.2.0") {
		t.Error("expired cache should be invalid")
	}

	if IsCacheValid(nil, "v0.2.0") {
		t.Error("nil cache should be invalid")
	}
}

func TestCheckSkipsDevelopmentBuilds(t *testing.T) {
	t.Parallel()

	result := Check("(devel)")
	if result.Error != nil {
		t.Fatalf("development build check should be silent, got %v", result.Error)
	}
	if result.HasUpdate {
		t.Fatal("development build should never report an update")
	}
}
