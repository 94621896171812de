package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/atkctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "atkctl.pid")

	require.NoError(t, Write(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	// rewriting our own file is allowed
	require.NoError(t, Write(path))

	require.NoError(t, Remove(path))
	assert.NoFileExists(t, path)
	require.NoError(t, Remove(path))
}

func TestWriteDetectsLiveOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atkctl.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := Write(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteReplacesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atkctl.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o600))

	require.NoError(t, Write(path))
}
