package serial

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// ResetUSBDevice performs a USB-level reset of the device behind a port.
// This can recover adapters that are in a hung/unresponsive state without
// physically unplugging them.
//
// Requires the usbreset utility (usbutils package) and permissions to
// reset USB devices (typically root).
func ResetUSBDevice(portPath string) error {
	info, err := GetPortInfo(portPath)
	if err != nil {
		return fmt.Errorf("failed to get port info: %w", err)
	}

	if info.BusNumber == "" || info.DeviceNumber == "" {
		return ErrUSBInfoNotAvailable
	}

	if !IsUSBResetAvailable() {
		return ErrUSBResetNotAvailable
	}

	usbPath, err := usbResetPath(info.BusNumber, info.DeviceNumber)
	if err != nil {
		return err
	}

	cmd := exec.Command("usbreset", usbPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("usbreset failed: %w (output: %s)", err, string(output))
	}

	// Give the device time to re-enumerate
	time.Sleep(2 * time.Second)

	return nil
}

// ResetUSBDeviceBySerial resets a USB device identified by serial number.
// Useful when port paths change across re-enumeration.
func ResetUSBDeviceBySerial(serialNumber string) error {
	portPath, err := FindPortBySerial(serialNumber)
	if err != nil {
		return err
	}
	return ResetUSBDevice(portPath)
}

// FindPortBySerial returns the device path of the port whose USB serial
// number matches. Ports without USB metadata are skipped.
func FindPortBySerial(serialNumber string) (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}

	for _, portPath := range ports {
		info, err := GetPortInfo(portPath)
		if err != nil {
			continue
		}
		if info.SerialNumber == serialNumber {
			return portPath, nil
		}
	}

	return "", fmt.Errorf("device with serial %s not found", serialNumber)
}

// usbResetPath builds the BBB/DDD argument usbreset expects, with the
// bus and device numbers zero-padded to three digits.
func usbResetPath(busNumber, deviceNumber string) (string, error) {
	bus, err := strconv.Atoi(busNumber)
	if err != nil {
		return "", fmt.Errorf("invalid bus number %q: %w", busNumber, err)
	}
	device, err := strconv.Atoi(deviceNumber)
	if err != nil {
		return "", fmt.Errorf("invalid device number %q: %w", deviceNumber, err)
	}
	return fmt.Sprintf("%03d/%03d", bus, device), nil
}

// IsUSBResetAvailable checks if the usbreset utility is available in PATH
func IsUSBResetAvailable() bool {
	_, err := exec.LookPath("usbreset")
	return err == nil
}
