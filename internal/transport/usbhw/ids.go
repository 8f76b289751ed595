package usbhw

// VendorID is the GoXLR USB vendor ID.
const VendorID = 0x1220

// Product IDs for the two supported device classes.
const (
	ProductFull    = 0x8fe0
	ProductCompact = 0x8fe4
)
