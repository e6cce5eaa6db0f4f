// Package snapshot keeps the pagedata.json of every recorded build,
// addressed by the SHA-256 of its content.
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var hashHexPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// ErrNotFound is returned by Get for an unknown hash.
var ErrNotFound = errors.New("snapshot not found")

type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Path(hashHex string) string {
	return filepath.Join(s.root, hashHex)
}

// Hash returns the hex SHA-256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Put stores content and returns its hash. Identical content is stored once;
// created reports whether this call wrote it.
func (s *Store) Put(ctx context.Context, content []byte) (hashHex string, created bool, err error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	hashHex = Hash(content)
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", false, fmt.Errorf("create snapshot directory %s: %w", s.root, err)
	}

	dst := s.Path(hashHex)
	if _, err := os.Stat(dst); err == nil {
		return hashHex, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("stat snapshot %s: %w", dst, err)
	}

	tmp, err := os.CreateTemp(s.root, hashHex+".tmp-*")
	if err != nil {
		return "", false, fmt.Errorf("create temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", false, fmt.Errorf("write temp snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", false, fmt.Errorf("close temp snapshot file: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		if _, statErr := os.Stat(dst); statErr == nil {
			return hashHex, false, nil
		}
		return "", false, fmt.Errorf("finalize snapshot %s: %w", dst, err)
	}
	return hashHex, true, nil
}

// Get returns the content stored under hashHex after checking it still
// matches its hash.
func (s *Store) Get(ctx context.Context, hashHex string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !hashHexPattern.MatchString(hashHex) {
		return nil, fmt.Errorf("invalid snapshot hash %q", hashHex)
	}
	content, err := os.ReadFile(s.Path(hashHex))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, hashHex)
		}
		return nil, fmt.Errorf("read snapshot %s: %w", hashHex, err)
	}
	if got := Hash(content); got != hashHex {
		return nil, fmt.Errorf("snapshot %s is corrupt (content hash %s)", hashHex, got)
	}
	return content, nil
}

// Prune removes every stored snapshot whose hash is not in keep and returns
// how many were removed. Files that are not snapshots are left alone.
func (s *Store) Prune(ctx context.Context, keep map[string]bool) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read snapshot directory %s: %w", s.root, err)
	}
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		name := entry.Name()
		if entry.IsDir() || !hashHexPattern.MatchString(name) || keep[name] {
			continue
		}
		if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove snapshot %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}
