// Package sync reconciles configured deck sources and assembles the card
// catalog from them. A source is either a local directory of TSV decks or
// a git repository holding them; git sources are mirrored into a local
// cache directory before loading.
package sync

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/veritas-study/veritas/internal/catalog"
	"github.com/veritas-study/veritas/internal/domain"
	"github.com/veritas-study/veritas/internal/gitsource"
)

// Refresh syncs every source and loads the combined catalog. A source that
// fails to sync or parse is logged and skipped; study must stay possible
// with whatever decks do load.
func Refresh(sources []string, cacheDir string) (*catalog.Catalog, error) {
	if err := os.MkdirAll(cacheDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create deck cache directory: %w", err)
	}

	var cards []domain.Card
	for _, source := range sources {
		dir := source
		if isGitSource(source) {
			localPath, err := gitURLToLocalPath(cacheDir, source)
			if err != nil {
				slog.Error("skipping deck source with unparseable URL", "source", source, "error", err)
				continue
			}
			if err := gitsource.Sync(source, localPath); err != nil {
				slog.Error("failed to sync deck repository", "source", source, "error", err)
				// A stale local mirror is still worth loading.
				if _, statErr := os.Stat(localPath); statErr != nil {
					continue
				}
			}
			dir = localPath
		}

		cat, err := catalog.LoadDir(dir)
		if err != nil {
			slog.Error("failed to load decks", "source", source, "error", err)
			continue
		}
		slog.Info("deck source loaded", "source", source, "cards", len(cat.Cards))
		cards = append(cards, cat.Cards...)
	}

	slog.Info("catalog refresh complete", "sources", len(sources), "cards", len(cards))
	return catalog.New(cards), nil
}

func isGitSource(source string) bool {
	return strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://")
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		// scp-style URL: git@host:user/repo.git
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
