package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	modulePath = "github.com/wilbur182/trestle"
	proxyURL   = "https://proxy.golang.org/%s/@latest"
)

// latestInfo is the module proxy's @latest response.
type latestInfo struct {
	Version string    `json:"Version"`
	Time    time.Time `json:"Time"`
}

// CheckResult holds the result of a version check.
type CheckResult struct {
	CurrentVersion string
	LatestVersion  string
	HasUpdate      bool
	Error          error
}

// UpdateAvailableMsg is emitted by CheckAsync when a newer release exists.
type UpdateAvailableMsg struct {
	CurrentVersion string
	LatestVersion  string
}

// CheckAsync returns a command that checks for updates in the background.
// It emits UpdateAvailableMsg only when a newer version exists; failures
// and up-to-date results are silent.
func CheckAsync(currentVersion string) tea.Cmd {
	return func() tea.Msg {
		result := Check(currentVersion)
		if result.Error != nil || !result.HasUpdate {
			return nil
		}
		return UpdateAvailableMsg{
			CurrentVersion: result.CurrentVersion,
			LatestVersion:  result.LatestVersion,
		}
	}
}

// Check asks the Go module proxy for the latest released version and
// compares it against currentVersion. Results are cached on disk so the
// proxy is consulted at most once per TTL.
func Check(currentVersion string) CheckResult {
	result := CheckResult{CurrentVersion: currentVersion}

	if isDevelopmentVersion(currentVersion) {
		return result
	}

	if entry, err := LoadCache(); err == nil && IsCacheValid(entry, currentVersion) {
		result.LatestVersion = entry.LatestVersion
		result.HasUpdate = entry.HasUpdate
		return result
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf(proxyURL, modulePath))
	if err != nil {
		result.Error = err
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Errorf("module proxy: %s", resp.Status)
		return result
	}

	var info latestInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		result.Error = err
		return result
	}

	result.LatestVersion = info.Version
	result.HasUpdate = isNewer(info.Version, currentVersion)

	_ = SaveCache(&CacheEntry{
		LatestVersion:  result.LatestVersion,
		CurrentVersion: currentVersion,
		CheckedAt:      time.Now(),
		HasUpdate:      result.HasUpdate,
	})

	return result
}

// isDevelopmentVersion returns true for non-release versions, which are
// never checked against the proxy.
func isDevelopmentVersion(v string) bool {
	if v == "" || v == "unknown" || v == "devel" || v == "(devel)" {
		return true
	}
	return strings.HasPrefix(v, "devel+")
}

// isNewer reports whether latest is a strictly newer release than current.
// Both accept an optional leading "v". A release outranks a pre-release of
// the same triple.
func isNewer(latest, current string) bool {
	ln, lpre, lok := parseVersion(latest)
	cn, cpre, cok := parseVersion(current)
	if !lok || !cok {
		return false
	}

	for i := range 3 {
		if ln[i] != cn[i] {
			return ln[i] > cn[i]
		}
	}

	if lpre == cpre {
		return false
	}
	if lpre == "" {
		return true
	}
	if cpre == "" {
		return false
	}
	return lpre > cpre
}

// parseVersion splits "v1.2.3-rc1" into its numeric triple and pre-release
// suffix. Missing parts default to zero.
func parseVersion(v string) ([3]int, string, bool) {
	var nums [3]int

	v = strings.TrimPrefix(v, "v")
	if v == "" {
		return nums, "", false
	}

	pre := ""
	if dash := strings.IndexByte(v, '-'); dash >= 0 {
		pre = v[dash+1:]
		v = v[:dash]
	}
	if plus := strings.IndexByte(v, '+'); plus >= 0 {
		v = v[:plus]
	}

	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		return nums, "", false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nums, "", false
		}
		nums[i] = n
	}
	return nums, pre, true
}
