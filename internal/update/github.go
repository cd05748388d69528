package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"golang.org/x/mod/semver"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// GitHubConfig locates the release feed and where downloads go.
type GitHubConfig struct {
	APIURL      string
	Owner       string
	Repo        string
	DownloadDir string
	// Target is the file replaced on install. Empty means the running executable.
	Target string
}

// Validate checks that the feed can be located.
func (c GitHubConfig) Validate() error {
	if c.Owner == "" || c.Repo == "" {
		return fmt.Errorf("%w: update.owner and update.repo are required", common.ErrMissingConfig)
	}
	return nil
}

type release struct {
	PublishedAt time.Time `json:"published_at"`
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	Assets      []asset   `json:"assets"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
}

type asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// GitHubHost implements Host on a GitHub releases feed.
type GitHubHost struct {
	httpClient *http.Client
	cfg        GitHubConfig
	current    string
	goos       string
	goarch     string
	retry      common.RetryOptions
}

var _ Host = (*GitHubHost)(nil)

// NewGitHubHost creates a host comparing releases against the current version.
func NewGitHubHost(cfg GitHubConfig, current string) (*GitHubHost, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = os.TempDir()
	}

	return &GitHubHost{
		cfg:     cfg,
		current: current,
		goos:    runtime.GOOS,
		goarch:  runtime.GOARCH,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// canonical returns v as a semver string with a leading "v", or "" if invalid.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

// Newer reports whether candidate is a greater version than current. An
// unparseable current version (such as a development build) is treated as v0.0.0.
func Newer(candidate, current string) bool {
	cand := canonical(candidate)
	if cand == "" {
		return false
	}
	cur := canonical(current)
	if cur == "" {
		cur = "v0.0.0"
	}
	return semver.Compare(cand, cur) > 0
}

// Check returns the newest published release greater than the running version.
func (h *GitHubHost) Check(ctx context.Context) (*Info, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases", h.cfg.APIURL, h.cfg.Owner, h.cfg.Repo)

	var releases []release
	err := common.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return common.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/vnd.github+json")

		resp, err := h.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch releases: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
			return common.ErrRateLimit
		case resp.StatusCode >= 500:
			return fmt.Errorf("release feed error %d: %w", resp.StatusCode, common.ErrUnavailable)
		case resp.StatusCode != http.StatusOK:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return common.Permanent(fmt.Errorf("release feed error: %d - %s", resp.StatusCode, string(body)))
		}

		if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
			return common.Permanent(fmt.Errorf("failed to decode releases: %w", err))
		}
		return nil
	}, h.retry)
	if err != nil {
		return nil, err
	}

	var best *release
	for i := range releases {
		r := &releases[i]
		if r.Draft || r.Prerelease || !Newer(r.TagName, h.current) {
			continue
		}
		if best == nil || semver.Compare(canonical(r.TagName), canonical(best.TagName)) > 0 {
			best = r
		}
	}
	if best == nil {
		slog.Debug("No newer release", "current", h.current, "releases", len(releases))
		return nil, nil
	}

	info := &Info{
		Version:     strings.TrimPrefix(canonical(best.TagName), "v"),
		Name:        best.Name,
		Notes:       best.Body,
		PublishedAt: best.PublishedAt,
	}
	if a, ok := h.selectAsset(best.Assets); ok {
		info.AssetName = a.Name
		info.AssetURL = a.BrowserDownloadURL
		info.Size = a.Size
	}
	return info, nil
}

// selectAsset prefers an asset naming both the OS and architecture, then
// one naming only the OS.
func (h *GitHubHost) selectAsset(assets []asset) (asset, bool) {
	var osOnly *asset
	for i := range assets {
		name := strings.ToLower(assets[i].Name)
		if !strings.Contains(name, h.goos) {
			continue
		}
		if strings.Contains(name, h.goarch) {
			return assets[i], true
		}
		if osOnly == nil {
			osOnly = &assets[i]
		}
	}
	if osOnly != nil {
		return *osOnly, true
	}
	return asset{}, false
}

// progressWriter reports the share of total bytes written so far.
type progressWriter struct {
	progress func(float64)
	total    int64
	written  int64
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.total > 0 && w.progress != nil {
		w.progress(float64(w.written) * 100 / float64(w.total))
	}
	return len(p), nil
}

// Download fetches the release asset into the download directory.
func (h *GitHubHost) Download(ctx context.Context, info *Info, progress func(float64)) (string, error) {
	if info == nil || info.AssetURL == "" {
		return "", ErrNoAsset
	}
	if err := os.MkdirAll(h.cfg.DownloadDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.AssetURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download asset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("asset download error: %d", resp.StatusCode)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = info.Size
	}

	dest := filepath.Join(h.cfg.DownloadDir, filepath.Base(info.AssetName))
	tmp, err := os.CreateTemp(h.cfg.DownloadDir, filepath.Base(info.AssetName)+".*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	pw := &progressWriter{progress: progress, total: total}
	if _, err := io.Copy(io.MultiWriter(tmp, pw), resp.Body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to finish download: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move download into place: %w", err)
	}
	if progress != nil {
		progress(100)
	}

	slog.Info("Update downloaded", "version", info.Version, "path", dest)
	return dest, nil
}

// Install atomically replaces the target with the downloaded file.
func (h *GitHubHost) Install(_ context.Context, path string) error {
	target := h.cfg.Target
	if target == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate executable: %w", err)
		}
		target, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return fmt.Errorf("failed to resolve executable: %w", err)
		}
	}

	src, err := os.Open(path) // #nosec G304 -- path comes from our own download
	if err != nil {
		return fmt.Errorf("failed to open update: %w", err)
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.new")
	if err != nil {
		return fmt.Errorf("failed to stage update: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to stage update: %w", err)
	}
	if err := tmp.Chmod(0755); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to mark update executable: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to stage update: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}

	slog.Info("Update installed", "target", target)
	return nil
}
