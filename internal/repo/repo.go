package repo

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"
)

var (
	slugRe      = regexp.MustCompile(`[^A-Za-z0-9._\-]+`)
	githubOrgRe = regexp.MustCompile(`^https?://github\.com/[^/]+/?$`)
)

func slugify(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.TrimSpace(s), "-"), "-")
}

// cloneTarget names the cache slot for a URL: a readable slug plus a short
// hash so distinct URLs never collide.
func cloneTarget(repoURL, cacheDir string) string {
	sum := sha1.Sum([]byte(repoURL))
	return filepath.Join(cacheDir, fmt.Sprintf("%s-%s", slugify(repoURL), hex.EncodeToString(sum[:])[:10]))
}

// CloneOrOpen returns a local working tree for repoURL. Existing local
// directories pass through untouched; remote URLs are cloned once into
// cacheDir under a slug-plus-hash name and reused on later runs.
func CloneOrOpen(repoURL, cacheDir string) (string, error) {
	if p, err := filepath.Abs(repoURL); err == nil {
		if info, statErr := os.Stat(p); statErr == nil && info.IsDir() {
			return p, nil
		}
	}

	url := strings.TrimSpace(repoURL)
	if githubOrgRe.MatchString(strings.TrimRight(url, "/")) {
		return "", fmt.Errorf("invalid GitHub URL %q: points to a user/org, not a repository; use https://github.com/<owner>/<repo>", repoURL)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create clone cache dir: %w", err)
	}

	target := cloneTarget(repoURL, cacheDir)

	if _, err := os.Stat(target); err == nil {
		logrus.WithField("path", target).Debug("reusing cached clone")
		return target, nil
	}

	logrus.WithFields(logrus.Fields{"url": repoURL, "path": target}).Info("cloning repository")
	if _, err := git.PlainClone(target, false, &git.CloneOptions{URL: url, Depth: 1}); err != nil {
		// don't leave a half-clone behind to be "reused" next run
		_ = os.RemoveAll(target)
		msg := err.Error()
		if strings.Contains(strings.ToLower(msg), "not found") {
			return "", fmt.Errorf("repository not found at %s: ensure the URL includes both owner and repo and is accessible", repoURL)
		}
		return "", fmt.Errorf("clone %s: %w", repoURL, err)
	}
	return target, nil
}
