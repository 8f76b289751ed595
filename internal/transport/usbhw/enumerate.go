//go:build !windows

package usbhw

import (
	"fmt"

	"github.com/google/gousb"

	"github.com/goxlr-daemon/goxlrd/internal/transport"
)

// DeviceKey stably identifies one physical device across PnP scans — the
// USBLocation the Supervisor's device map is keyed on (§4.9). On this
// platform it encodes the bus/address pair Location carries.
type DeviceKey string

// Descriptor is one attached device surfaced by Enumerate.
type Descriptor struct {
	Key    DeviceKey
	Class  transport.DeviceClass
	Serial string
}

func keyFor(bus, address int) DeviceKey {
	return DeviceKey(fmt.Sprintf("%d:%d", bus, address))
}

// Enumerate lists every currently attached GoXLR-class device. The PnP
// loop calls this at its polling resolution and diffs the returned keys
// against its previous scan to synthesise Attached/Removed events.
func Enumerate() ([]Descriptor, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	var descs []Descriptor
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(VendorID) &&
			(desc.Product == gousb.ID(ProductFull) || desc.Product == gousb.ID(ProductCompact))
	})
	for _, d := range devs {
		class := transport.ClassFull
		if d.Desc.Product == gousb.ID(ProductCompact) {
			class = transport.ClassCompact
		}
		serial, _ := d.SerialNumber()
		descs = append(descs, Descriptor{
			Key:    keyFor(d.Desc.Bus, d.Desc.Address),
			Class:  class,
			Serial: serial,
		})
		d.Close()
	}
	if err != nil {
		return descs, fmt.Errorf("usbhw: enumerating devices: %w", err)
	}
	return descs, nil
}

// OpenByKey opens the device identified by a key Enumerate previously
// returned.
func OpenByKey(key DeviceKey) (*Backend, error) {
	var bus, addr int
	if _, err := fmt.Sscanf(string(key), "%d:%d", &bus, &addr); err != nil {
		return nil, fmt.Errorf("usbhw: malformed device key %q: %w", key, err)
	}
	return Open(Location{Bus: bus, Address: addr})
}
