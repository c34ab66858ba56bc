//go:build windows
// +build windows

package diskio

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// openPlatform opens path with shared read/write so the volume is not
// exclusively locked out from other processes, matching the retrieved
// tool's own Windows raw-device contract.
func openPlatform(path string) (platformFile, bool, error) {
	handle, err := windows.CreateFile(
		windows.StringToUTF16Ptr(path),
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, false, fmt.Errorf("CreateFile: %w", err)
	}
	isDevice := isPhysicalDrivePath(path)
	return &windowsFile{handle: handle, isDevice: isDevice}, isDevice, nil
}

func isPhysicalDrivePath(path string) bool {
	return len(path) > 4 && path[:4] == `\\.\`
}

type windowsFile struct {
	handle   windows.Handle
	isDevice bool
}

func (w *windowsFile) Close() error {
	return windows.CloseHandle(w.handle)
}

// ReadAt aligns the requested range to 512-byte sector boundaries before
// issuing the overlapped read, since raw volumes reject unaligned I/O,
// then copies out just the requested slice.
func (w *windowsFile) ReadAt(p []byte, off int64) (int, error) {
	const sectorSize = 512

	alignedOffset := off / sectorSize * sectorSize
	alignmentDiff := int(off - alignedOffset)
	alignedSize := ((len(p) + alignmentDiff + sectorSize - 1) / sectorSize) * sectorSize

	buf := make([]byte, alignedSize)

	var bytesRead uint32
	ov := new(windows.Overlapped)
	ov.Offset = uint32(alignedOffset)
	ov.OffsetHigh = uint32(alignedOffset >> 32)

	err := windows.ReadFile(w.handle, buf, &bytesRead, ov)
	if err != nil {
		if err == syscall.ERROR_IO_PENDING {
			err = windows.GetOverlappedResult(w.handle, ov, &bytesRead, true)
		}
		if err != nil {
			return 0, fmt.Errorf("aligned read failed: %w", err)
		}
	}

	if alignmentDiff+len(p) > int(bytesRead) {
		return 0, fmt.Errorf("aligned read too short: need %d, have %d", alignmentDiff+len(p), bytesRead)
	}
	return copy(p, buf[alignmentDiff:alignmentDiff+len(p)]), nil
}

type diskGeometry struct {
	Cylinders         int64
	MediaType         uint32
	TracksPerCylinder uint32
	SectorsPerTrack   uint32
	BytesPerSector    uint32
}

const ioctlDiskGetDriveGeometry = 0x70000

func (w *windowsFile) geometry() (diskGeometry, error) {
	var geometry diskGeometry
	var bytesReturned uint32

	err := windows.DeviceIoControl(
		w.handle,
		ioctlDiskGetDriveGeometry,
		nil,
		0,
		(*byte)(unsafe.Pointer(&geometry)),
		uint32(unsafe.Sizeof(geometry)),
		&bytesReturned,
		nil,
	)
	if err != nil {
		return diskGeometry{}, fmt.Errorf("DeviceIoControl(IOCTL_DISK_GET_DRIVE_GEOMETRY): %w", err)
	}
	return geometry, nil
}

func (w *windowsFile) sectorSize() (int64, error) {
	if !w.isDevice {
		return 0, fmt.Errorf("not a physical drive path")
	}
	g, err := w.geometry()
	if err != nil {
		return 0, err
	}
	return int64(g.BytesPerSector), nil
}

func (w *windowsFile) totalSize() (int64, bool) {
	if w.isDevice {
		g, err := w.geometry()
		if err == nil {
			size := g.Cylinders * int64(g.TracksPerCylinder) * int64(g.SectorsPerTrack) * int64(g.BytesPerSector)
			if size > 0 {
				return size, true
			}
		}
	}

	var fileSizeHigh uint32
	low, err := windows.GetFileSize(w.handle, &fileSizeHigh)
	if err != nil {
		return 0, false
	}
	return int64(fileSizeHigh)<<32 | int64(low), true
}
