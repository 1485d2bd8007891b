package serial

import (
	"os"
	"path/filepath"
	"strings"
)

// sysfsTTYDir is the sysfs tty class directory, overridable for tests
var sysfsTTYDir = "/sys/class/tty"

// readSysfsFile reads a single sysfs attribute, returning "" when the file
// is missing or unreadable
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// enrichUSBInfo fills the USB metadata fields of info from sysfs.
//
// The sysfs layout for a USB serial adapter is:
//
//	/sys/class/tty/ttyUSB0/device -> .../<usb-device>/<interface>/ttyUSB0
//
// so the interface directory is the parent of the resolved symlink and the
// USB device directory (idVendor, idProduct, serial, busnum, devnum) is one
// level above that. Missing attributes leave their fields empty.
func enrichUSBInfo(info *PortInfo) {
	devLink := filepath.Join(sysfsTTYDir, info.Name, "device")
	resolved, err := filepath.EvalSymlinks(devLink)
	if err != nil {
		return
	}

	interfaceDir := filepath.Dir(resolved)
	info.InterfaceNumber = readSysfsFile(filepath.Join(interfaceDir, "bInterfaceNumber"))

	deviceDir := filepath.Dir(interfaceDir)
	info.VendorID = readSysfsFile(filepath.Join(deviceDir, "idVendor"))
	info.ProductID = readSysfsFile(filepath.Join(deviceDir, "idProduct"))
	info.SerialNumber = readSysfsFile(filepath.Join(deviceDir, "serial"))
	info.Manufacturer = readSysfsFile(filepath.Join(deviceDir, "manufacturer"))
	info.Product = readSysfsFile(filepath.Join(deviceDir, "product"))
	info.BusNumber = readSysfsFile(filepath.Join(deviceDir, "busnum"))
	info.DeviceNumber = readSysfsFile(filepath.Join(deviceDir, "devnum"))
}
