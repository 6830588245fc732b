// Package gitsource fetches deck files distributed through git
// repositories. Only deck content travels this way; card scheduling
// state never leaves the local database.
package gitsource

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/conorfennell/leitbox/internal/deck"
	"github.com/conorfennell/leitbox/internal/domain"
)

// Fetch clones the repository into its cache path under baseDir, or pulls
// if a clone already exists, and returns the local working-tree path.
func Fetch(repoURL, baseDir string) (string, error) {
	localPath, err := localPathFor(baseDir, repoURL)
	if err != nil {
		return "", err
	}

	_, err = os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		slog.Info("cloning deck repository", "url", repoURL, "path", localPath)
		if _, err := git.PlainClone(localPath, false, &git.CloneOptions{URL: repoURL}); err != nil {
			return "", fmt.Errorf("failed to clone repo %s: %w", repoURL, err)
		}
	case err == nil:
		slog.Info("pulling deck repository", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return "", fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}
		if err := worktree.Pull(&git.PullOptions{RemoteName: "origin"}); err != nil && err != git.NoErrAlreadyUpToDate {
			return "", fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
	default:
		return "", fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return localPath, nil
}

// ImportDeck fetches the repository and parses every .csv/.tsv file in
// its working tree into one combined deck, all cards unseen and due
// today. Parse failures on individual files are logged and skipped.
func ImportDeck(repoURL, baseDir string, today domain.Date) ([]domain.Card, error) {
	localPath, err := Fetch(repoURL, baseDir)
	if err != nil {
		return nil, err
	}

	var cards []domain.Card
	walkErr := filepath.WalkDir(localPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".tsv") {
			return nil
		}
		fileCards, parseErr := deck.ParseFile(path, today)
		if parseErr != nil {
			slog.Warn("skipping unreadable deck file", "path", path, "error", parseErr)
			return nil
		}
		cards = append(cards, fileCards...)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("error walking repo %s: %w", localPath, walkErr)
	}

	return cards, nil
}

// localPathFor derives a stable cache directory from a repository URL,
// handling both https URLs and scp-style git@host:path addresses.
func localPathFor(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
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
