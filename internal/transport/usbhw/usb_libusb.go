//go:build !windows

// Package usbhw supplies the concrete transport.Backend implementations:
// a libusb-backed one (this file, via gousb) for Linux and macOS, and a
// native WinUSB one for Windows (usb_windows.go).
package usbhw

import (
	"errors"
	"fmt"

	"github.com/google/gousb"

	"github.com/goxlr-daemon/goxlrd/internal/transport"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// Location identifies one physical device by USB bus/address, the same
// pair the PnP enumerator diffs against to detect attach/remove.
type Location struct {
	Bus     int
	Address int
}

// Backend is the gousb-backed transport.Backend for non-Windows platforms.
// It claims interface 0 on Open; first-time bring-up releases it before
// the bus reset and does not claim it again.
type Backend struct {
	ctx    *gousb.Context
	dev    *gousb.Device
	cfg    *gousb.Config
	intf   *gousb.Interface
	class  transport.DeviceClass
	ifaces map[int]func()
}

// Open locates and opens the device at loc, claiming interface 0.
func Open(loc Location) (*Backend, error) {
	ctx := gousb.NewContext()

	var found *gousb.Device
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return int(desc.Bus) == loc.Bus && int(desc.Address) == loc.Address
	})
	for i, d := range devs {
		if i == 0 {
			found = d
			continue
		}
		d.Close()
	}
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("usbhw: enumerating devices: %w", err)
	}
	if found == nil {
		ctx.Close()
		return nil, fmt.Errorf("usbhw: device at bus=%d address=%d not found", loc.Bus, loc.Address)
	}

	class := transport.ClassFull
	if found.Desc.Product == gousb.ID(ProductCompact) {
		class = transport.ClassCompact
	}

	_ = found.SetAutoDetach(true)

	b := &Backend{ctx: ctx, dev: found, class: class, ifaces: map[int]func(){}}
	if err := b.ClaimInterface(0); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) controlType(out bool, class bool) uint8 {
	rType := uint8(gousb.ControlInterface)
	if out {
		rType |= gousb.ControlOut
	} else {
		rType |= gousb.ControlIn
	}
	if class {
		rType |= gousb.ControlClass
	} else {
		rType |= gousb.ControlVendor
	}
	return rType
}

func (b *Backend) WriteVendorControl(request uint8, value, index uint16, data []byte) error {
	_, err := b.dev.Control(b.controlType(true, false), request, value, index, data)
	return wrapPipe(err)
}

func (b *Backend) WriteClassControl(request uint8, value, index uint16, data []byte) error {
	_, err := b.dev.Control(b.controlType(true, true), request, value, index, data)
	return wrapPipe(err)
}

func (b *Backend) ReadVendorControl(request uint8, value, index uint16, length int) ([]byte, error) {
	buf := make([]byte, length)
	n, err := b.dev.Control(b.controlType(false, false), request, value, index, buf)
	if err != nil {
		return nil, wrapPipe(err)
	}
	return buf[:n], nil
}

func (b *Backend) ClaimInterface(iface int) error {
	if _, ok := b.ifaces[iface]; ok {
		return nil
	}
	if b.cfg == nil {
		cfg, err := b.dev.Config(1)
		if err != nil {
			return fmt.Errorf("usbhw: setting config 1: %w", err)
		}
		b.cfg = cfg
	}
	intf, done, err := b.cfg.Interface(iface, 0)
	if err != nil {
		return fmt.Errorf("usbhw: claiming interface %d: %w", iface, err)
	}
	b.intf = intf
	b.ifaces[iface] = done
	return nil
}

func (b *Backend) ReleaseInterface(iface int) error {
	done, ok := b.ifaces[iface]
	if !ok {
		return nil
	}
	done()
	delete(b.ifaces, iface)
	b.intf = nil
	return nil
}

func (b *Backend) ResetDevice() error {
	return b.dev.Reset()
}

func (b *Backend) DeviceClass() transport.DeviceClass {
	return b.class
}

func (b *Backend) Close() error {
	for _, done := range b.ifaces {
		done()
	}
	b.ifaces = map[int]func(){}
	if b.cfg != nil {
		b.cfg.Close()
		b.cfg = nil
	}
	var err error
	if b.dev != nil {
		err = b.dev.Close()
		b.dev = nil
	}
	if b.ctx != nil {
		b.ctx.Close()
		b.ctx = nil
	}
	return err
}

// wrapPipe maps a libusb STALL condition — reported on the control
// endpoint as a pipe error — onto xerrors.ErrPipe so the transport layer
// stays USB-library agnostic.
func wrapPipe(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gousb.ErrorPipe) {
		return xerrors.ErrPipe
	}
	return err
}
