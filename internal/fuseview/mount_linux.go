//go:build linux
// +build linux

// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package fuseview

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	osutil "github.com/arcflux/diskcarve/pkg/util/os"
)

// Mount serves entries read-only at mountpoint, blocking until a
// termination signal successfully unmounts it.
func Mount(mountpoint string, r io.ReaderAt, entries []Entry) error {
	created, err := osutil.EnsureDir(mountpoint, true)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint)
	if err != nil {
		return err
	}
	defer c.Close()

	rfs := New(r, entries)

	go func() {
		srv := fusefs.New(c, nil)
		if err := srv.Serve(rfs); err != nil {
			log.Printf("fuseview: serve error: %v", err)
		}
	}()
	return waitForUnmount(mountpoint)
}

func waitForUnmount(mountpoint string) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	log.Println("fuseview: mounted; waiting for termination signal")

	const maxUnmountRetries = 3
	attempts := 0
	for sig := range sigc {
		log.Printf("fuseview: signal received: %v", sig)

		if attempts >= maxUnmountRetries {
			return fmt.Errorf("fuseview: exceeded %d unmount retries for %s", maxUnmountRetries, mountpoint)
		}

		if err := fuse.Unmount(mountpoint); err == nil {
			log.Println("fuseview: unmounted successfully")
			return nil
		} else {
			attempts++
			log.Printf("fuseview: unmount failed: %v (%d retries left)", err, maxUnmountRetries-attempts)
		}
	}
	return nil
}
