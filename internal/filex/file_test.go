package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDirs_CreatesNestedDirectories(t *testing.T) {
	tmp := t.TempDir()
	db := filepath.Join(tmp, "state", "vault.db")
	audit := filepath.Join(tmp, "logs", "2024", "audit.jsonl")

	require.NoError(t, EnsureParentDirs(db, "", audit, "relative.key"))

	for _, dir := range []string{filepath.Dir(db), filepath.Dir(audit)} {
		fi, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, fi.IsDir())
		if runtime.GOOS != "windows" {
			require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
		}
	}
}

func TestEnsureParentDirs_Idempotent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "vault.db")
	require.NoError(t, EnsureParentDirs(p))
	require.NoError(t, EnsureParentDirs(p))
}

func TestEnsureParentDirs_FileInTheWay(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	require.Error(t, EnsureParentDirs(filepath.Join(blocker, "vault.db")))
}
