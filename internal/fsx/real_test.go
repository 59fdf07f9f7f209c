package fsx_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ddofborg/blobcache/internal/fsx"
)

func Test_Lock_FailsWithErrWouldBlock_When_AlreadyHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockfile")
	real := fsx.NewReal()

	first, err := real.Lock(path)
	require.NoError(t, err, "first Lock should succeed")
	t.Cleanup(func() { _ = first.Close() })

	_, err = real.Lock(path)
	require.ErrorIs(t, err, fsx.ErrWouldBlock, "second Lock on the same path should block")
}

func Test_Lock_SucceedsAgain_When_PreviousLockWasClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockfile")
	real := fsx.NewReal()

	first, err := real.Lock(path)
	require.NoError(t, err, "first Lock should succeed")
	require.NoError(t, first.Close(), "Close should release the lock")

	second, err := real.Lock(path)
	require.NoError(t, err, "Lock should succeed again once released")
	require.NoError(t, second.Close())
}

func Test_WriteFileAtomic_ReplacesContentsEntirely_When_FileAlreadyExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot")
	real := fsx.NewReal()

	require.NoError(t, real.WriteFileAtomic(path, []byte("first version, much longer than the next"), 0o644))
	require.NoError(t, real.WriteFileAtomic(path, []byte("second"), 0o644))

	got, err := real.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))
}

func Test_Remove_ReturnsNil_When_FileDoesNotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	real := fsx.NewReal()

	require.NoError(t, real.Remove(path))
}

func Test_Stat_ReturnsNotExist_When_FileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	real := fsx.NewReal()

	_, err := real.Stat(path)
	require.True(t, os.IsNotExist(err))
}
