//go:build windows

package usbhw

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/goxlr-daemon/goxlrd/internal/transport"
)

// deviceInterfaceGUID identifies the WinUSB device interface class this
// device's driver registers. The real value is assigned per-vendor in the
// device's INF file and was not present in the retrieved reference
// material; this is a placeholder that a real deployment must replace
// with the vendor's published GUID.
var deviceInterfaceGUID = windows.GUID{
	Data1: 0xa5dcbf10, Data2: 0x6530, Data3: 0x11d2,
	Data4: [8]byte{0x90, 0x1f, 0x00, 0xc0, 0x4f, 0xb9, 0x51, 0xed},
}

const (
	digcfPresent        = 0x00000002
	digcfDeviceInterface = 0x00000010
	invalidHandleValue  = ^uintptr(0)
)

var (
	setupapi                               = windows.NewLazySystemDLL("setupapi.dll")
	procSetupDiGetClassDevsW               = setupapi.NewProc("SetupDiGetClassDevsW")
	procSetupDiEnumDeviceInterfaces        = setupapi.NewProc("SetupDiEnumDeviceInterfaces")
	procSetupDiGetDeviceInterfaceDetailW   = setupapi.NewProc("SetupDiGetDeviceInterfaceDetailW")
	procSetupDiDestroyDeviceInfoList       = setupapi.NewProc("SetupDiDestroyDeviceInfoList")
)

type spDeviceInterfaceData struct {
	cbSize             uint32
	interfaceClassGUID windows.GUID
	flags              uint32
	reserved           uintptr
}

// DeviceKey stably identifies one physical device across PnP scans — the
// USBLocation the Supervisor's device map is keyed on (§4.9). On Windows
// it is the device-interface symbolic link path.
type DeviceKey string

// Descriptor is one attached device surfaced by Enumerate.
type Descriptor struct {
	Key    DeviceKey
	Class  transport.DeviceClass
	Serial string
}

// Enumerate lists every currently attached GoXLR-class device by walking
// the registered device interfaces for deviceInterfaceGUID.
func Enumerate() ([]Descriptor, error) {
	set, _, _ := procSetupDiGetClassDevsW.Call(
		uintptr(unsafe.Pointer(&deviceInterfaceGUID)),
		0, 0,
		uintptr(digcfPresent|digcfDeviceInterface),
	)
	if set == invalidHandleValue {
		return nil, fmt.Errorf("usbhw: SetupDiGetClassDevsW failed")
	}
	defer procSetupDiDestroyDeviceInfoList.Call(set)

	var descs []Descriptor
	for index := uint32(0); ; index++ {
		var ifData spDeviceInterfaceData
		ifData.cbSize = uint32(unsafe.Sizeof(ifData))
		ok, _, _ := procSetupDiEnumDeviceInterfaces.Call(
			set, 0,
			uintptr(unsafe.Pointer(&deviceInterfaceGUID)),
			uintptr(index),
			uintptr(unsafe.Pointer(&ifData)),
		)
		if ok == 0 {
			break // ERROR_NO_MORE_ITEMS
		}

		var neededSize uint32
		procSetupDiGetDeviceInterfaceDetailW.Call(
			set, uintptr(unsafe.Pointer(&ifData)),
			0, 0, uintptr(unsafe.Pointer(&neededSize)), 0,
		)
		if neededSize == 0 {
			continue
		}

		buf := make([]byte, neededSize)
		// The detail struct's first field is a DWORD cbSize; x/sys/windows
		// has no typed binding for the variable-length tail, so this is
		// addressed as a raw buffer per the platform's documented layout.
		*(*uint32)(unsafe.Pointer(&buf[0])) = 8 // sizeof(cbSize)+sizeof(WCHAR) on amd64 ABI padding
		ok, _, _ = procSetupDiGetDeviceInterfaceDetailW.Call(
			set, uintptr(unsafe.Pointer(&ifData)),
			uintptr(unsafe.Pointer(&buf[0])), uintptr(neededSize),
			uintptr(unsafe.Pointer(&neededSize)), 0,
		)
		if ok == 0 {
			continue
		}

		path := windows.UTF16PtrToString((*uint16)(unsafe.Pointer(&buf[4])))
		descs = append(descs, Descriptor{
			Key:    DeviceKey(path),
			Class:  classFromPath(path),
			Serial: serialFromPath(path),
		})
	}
	return descs, nil
}

// OpenByKey opens the device identified by a key Enumerate previously
// returned.
func OpenByKey(key DeviceKey) (*Backend, error) {
	return Open(string(key), classFromPath(string(key)))
}

// classFromPath infers the device class from the product ID embedded in a
// Windows device-interface path of the form
// \\?\USB#VID_1220&PID_8fe0#...
func classFromPath(path string) transport.DeviceClass {
	upper := strings.ToUpper(path)
	if strings.Contains(upper, fmt.Sprintf("PID_%04X", ProductCompact)) {
		return transport.ClassCompact
	}
	return transport.ClassFull
}

// serialFromPath extracts the serial number segment of a Windows
// device-interface path, the third '#'-delimited field.
func serialFromPath(path string) string {
	parts := strings.Split(path, "#")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
