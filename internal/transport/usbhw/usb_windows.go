//go:build windows

package usbhw

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/goxlr-daemon/goxlrd/internal/transport"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// ioctl codes for the vendor-control pipe exposed by the device's WinUSB
// function driver. METHOD_BUFFERED, FILE_ANY_ACCESS.
const (
	ioctlVendorWrite = 0x222000
	ioctlVendorRead  = 0x222004
	ioctlClassWrite  = 0x222008
	ioctlVendorReset = 0x22200c
)

// controlRequest mirrors the parameters of a USB control transfer; it is
// marshalled into the IOCTL input buffer the driver expects.
type controlRequest struct {
	Request uint8
	_       [3]byte
	Value   uint16
	Index   uint16
	Length  uint32
}

func (r controlRequest) bytes() []byte {
	buf := make([]byte, 12)
	buf[0] = r.Request
	binary.LittleEndian.PutUint16(buf[4:6], r.Value)
	binary.LittleEndian.PutUint16(buf[6:8], r.Index)
	binary.LittleEndian.PutUint32(buf[8:12], r.Length)
	return buf
}

// Backend is the Windows WinUSB-style transport.Backend. It addresses the
// device by the symbolic link path Windows assigns it rather than by a
// bus/address pair, since Windows does not expose those stably.
type Backend struct {
	handle     windows.Handle
	identifier string
	class      transport.DeviceClass
}

// Open opens the device identified by its Windows device-interface path
// (the WindowsUSB.identifier counterpart to Location on other platforms).
func Open(identifier string, class transport.DeviceClass) (*Backend, error) {
	path, err := windows.UTF16PtrFromString(identifier)
	if err != nil {
		return nil, fmt.Errorf("usbhw: invalid device path %q: %w", identifier, err)
	}

	handle, err := windows.CreateFile(
		path,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("usbhw: opening %q: %w", identifier, err)
	}

	return &Backend{handle: handle, identifier: identifier, class: class}, nil
}

func (b *Backend) ioctl(code uint32, in, out []byte) (int, error) {
	var returned uint32
	err := windows.DeviceIoControl(b.handle, code, &in[0], uint32(len(in)), outPtr(out), uint32(len(out)), &returned, nil)
	if err != nil {
		if err == windows.ERROR_PIPE_NOT_CONNECTED || err == windows.ERROR_DEVICE_NOT_CONNECTED {
			return 0, xerrors.ErrPipe
		}
		return 0, fmt.Errorf("usbhw: ioctl 0x%x: %w", code, err)
	}
	return int(returned), nil
}

func outPtr(out []byte) *byte {
	if len(out) == 0 {
		return nil
	}
	return &out[0]
}

func (b *Backend) WriteVendorControl(request uint8, value, index uint16, data []byte) error {
	req := controlRequest{Request: request, Value: value, Index: index, Length: uint32(len(data))}
	in := append(req.bytes(), data...)
	_, err := b.ioctl(ioctlVendorWrite, in, nil)
	return err
}

func (b *Backend) WriteClassControl(request uint8, value, index uint16, data []byte) error {
	req := controlRequest{Request: request, Value: value, Index: index, Length: uint32(len(data))}
	in := append(req.bytes(), data...)
	_, err := b.ioctl(ioctlClassWrite, in, nil)
	return err
}

func (b *Backend) ReadVendorControl(request uint8, value, index uint16, length int) ([]byte, error) {
	req := controlRequest{Request: request, Value: value, Index: index, Length: uint32(length)}
	out := make([]byte, length)
	n, err := b.ioctl(ioctlVendorRead, req.bytes(), out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

func (b *Backend) ClaimInterface(iface int) error   { return nil }
func (b *Backend) ReleaseInterface(iface int) error { return nil }

func (b *Backend) ResetDevice() error {
	_, err := b.ioctl(ioctlVendorReset, []byte{0}, nil)
	return err
}

func (b *Backend) DeviceClass() transport.DeviceClass {
	return b.class
}

func (b *Backend) Close() error {
	return windows.CloseHandle(b.handle)
}
