package serial

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ListPorts returns a list of available serial ports on the system.
// Filters for communication-capable devices and excludes virtual terminals.
func ListPorts() ([]string, error) {
	var ports []string

	entries, err := os.ReadDir("/dev")
	if err != nil {
		return nil, err
	}

	// Regular expressions for different types of serial devices
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
		regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
		regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
		regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
		regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
	}

	// Exclude virtual terminals and pseudo-terminals
	excludePatterns := []*regexp.Regexp{
		regexp.MustCompile(`^tty\d+$`),
		regexp.MustCompile(`^console$`),
		regexp.MustCompile(`^ptmx$`),
		regexp.MustCompile(`^pty.*$`),
	}

	for _, entry := range entries {
		name := entry.Name()

		excluded := false
		for _, excludePattern := range excludePatterns {
			if excludePattern.MatchString(name) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		for _, pattern := range patterns {
			if pattern.MatchString(name) {
				fullPath := filepath.Join("/dev", name)
				if isCharacterDevice(fullPath) {
					ports = append(ports, fullPath)
				}
				break
			}
		}
	}

	sort.Strings(ports)
	return ports, nil
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo holds detailed information about a serial port
type PortInfo struct {
	Name         string
	Path         string
	Description  string
	VendorID     string
	ProductID    string
	SerialNumber string
	BusNumber    string
	DeviceNumber string
}

// GetPortInfo returns detailed information about a specific port
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)
	info := &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
	}

	if strings.HasPrefix(name, "ttyUSB") || strings.HasPrefix(name, "ttyACM") {
		enrichUSBInfo(info)
	}

	return info, nil
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// sysTTYClassDir is where the kernel publishes tty device links.
// Overridable in tests.
var sysTTYClassDir = "/sys/class/tty"

// enrichUSBInfo fills in USB metadata from sysfs. The tty's device link
// points at a USB interface directory; the device descriptor attributes
// (idVendor, busnum, ...) live on an ancestor, so walk upward until they
// appear. Missing attributes leave the fields empty.
func enrichUSBInfo(info *PortInfo) {
	devLink := filepath.Join(sysTTYClassDir, info.Name, "device")
	dir, err := filepath.EvalSymlinks(devLink)
	if err != nil {
		return
	}

	for ; dir != "/" && dir != "/sys"; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err != nil {
			continue
		}
		info.VendorID = readSysfsAttr(dir, "idVendor")
		info.ProductID = readSysfsAttr(dir, "idProduct")
		info.SerialNumber = readSysfsAttr(dir, "serial")
		info.BusNumber = readSysfsAttr(dir, "busnum")
		info.DeviceNumber = readSysfsAttr(dir, "devnum")
		if product := readSysfsAttr(dir, "product"); product != "" {
			info.Description = product
		}
		return
	}
}

// readSysfsAttr reads a single sysfs attribute file, trimmed
func readSysfsAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
