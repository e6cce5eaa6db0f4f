package build

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewBuildID returns a ULID so build ids sort by start time.
func NewBuildID(now time.Time) (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(now.UTC()), entropy)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("generate build id: insufficient entropy")
		}
		return "", fmt.Errorf("generate build id: %w", err)
	}
	return id.String(), nil
}
