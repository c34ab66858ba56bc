//go:build !linux
// +build !linux

package fuseview

import (
	"fmt"
	"io"
)

// Mount is unsupported outside Linux; FUSE mounting requires
// bazil.org/fuse's Linux-only kernel interface.
func Mount(mountpoint string, r io.ReaderAt, entries []Entry) error {
	return fmt.Errorf("fuseview: FUSE mount is only supported on Linux")
}
