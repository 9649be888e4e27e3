// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkg/xattr"
)

func IsEmptyString(str string) bool {
	return strings.TrimSpace(str) == ""
}

func IsPathExists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CopyFile clones src to dst the way a metadata preserving copy does:
// contents, permission bits, extended attributes and timestamps all
// carry over. Parent directories of dst must already exist.
func CopyFile(src, dst string) error {
	s, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "open source file")
	}
	defer s.Close()

	info, err := s.Stat()
	if err != nil {
		return errors.Wrap(err, "stat source file")
	}

	d, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrap(err, "create destination file")
	}
	if _, err := io.Copy(d, s); err != nil {
		d.Close()
		return errors.Wrap(err, "copy file contents")
	}
	if err := d.Close(); err != nil {
		return errors.Wrap(err, "flush destination file")
	}

	// An already existing destination keeps its old mode through
	// O_TRUNC, so align it explicitly.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "copy file mode")
	}
	if err := copyXattr(src, dst); err != nil {
		return err
	}
	return errors.Wrap(os.Chtimes(dst, info.ModTime(), info.ModTime()), "copy file times")
}

func copyXattr(src, dst string) error {
	// A filesystem without extended attribute support fails the
	// listing, which leaves nothing to carry over.
	names, err := xattr.LList(src)
	if err != nil {
		return nil
	}
	for _, name := range names {
		data, err := xattr.LGet(src, name)
		if err != nil {
			return errors.Wrapf(err, "read attribute %s", name)
		}
		if err := xattr.LSet(dst, name, data); err != nil {
			return errors.Wrapf(err, "write attribute %s", name)
		}
	}
	return nil
}
