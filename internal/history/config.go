package history

import (
	"path/filepath"

	"codeberg.org/mutker/atkctl/internal/errors"
)

const (
	// File system permissions and paths
	defaultDirPerm = 0o755
	backupDirName  = "backups"

	// DefaultLimit is used by Recent when no positive limit is given.
	DefaultLimit = 20
)

type Config struct {
	DBPath  string
	Enabled bool
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate DBPath if history is enabled
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	return nil
}

func (c Config) backupDir() string {
	return filepath.Join(filepath.Dir(c.DBPath), backupDirName)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
