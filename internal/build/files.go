package build

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	PageDataFileName = "pagedata.json"
	filePerm         = 0o644
)

func writeFileAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, filePerm); err != nil {
		return fmt.Errorf("write temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file %s to %s: %w", tmp, path, err)
	}
	return nil
}
