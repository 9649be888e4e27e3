// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/xattr"
	"github.com/stretchr/testify/require"
)

func TestIsEmptyString(t *testing.T) {
	require.True(t, IsEmptyString(""))
	require.True(t, IsEmptyString("  \t "))
	require.False(t, IsEmptyString("region"))
}

func TestIsPathExists(t *testing.T) {
	dir := t.TempDir()
	require.True(t, IsPathExists(dir))
	require.False(t, IsPathExists(filepath.Join(dir, "missing")))
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "r.0.0.mca")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	require.True(t, IsDir(dir))
	require.False(t, IsDir(file))
	require.False(t, IsDir(filepath.Join(dir, "missing")))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mca")
	dst := filepath.Join(dir, "dst.mca")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0600))

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestCopyFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mca")
	dst := filepath.Join(dir, "dst.mca")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old contents, longer"), 0600))

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, []byte("new"), data)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestCopyFileCarriesTimestamps(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mca")
	dst := filepath.Join(dir, "dst.mca")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))
	stamp := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(src, stamp, stamp))

	require.NoError(t, CopyFile(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(stamp), "got %s, want %s", info.ModTime(), stamp)
}

func TestCopyFileCarriesXattrs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mca")
	dst := filepath.Join(dir, "dst.mca")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))
	if err := xattr.LSet(src, "user.origin", []byte("world")); err != nil {
		t.Skipf("extended attributes not supported here: %s", err)
	}

	require.NoError(t, CopyFile(src, dst))

	data, err := xattr.LGet(dst, "user.origin")
	require.NoError(t, err)
	require.Equal(t, []byte("world"), data)
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	require.Error(t, err)
}
