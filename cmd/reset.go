/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/allbin/linktest/serial"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset <port|serial>",
	Short: "Reset a USB serial device",
	Long: `Perform a USB-level reset on a serial device. This can recover adapters
that are hung or unresponsive without physically unplugging them, which
is common during hardware bring-up.

The device will re-enumerate after reset, which may cause the port path
to change (e.g., /dev/ttyUSB0 might become /dev/ttyUSB1). When the
device's serial number is known, the command waits for it to reappear
and prints the new path.

Requirements:
- usbreset utility must be installed (from usbutils package)
- Root/sudo permissions required for USB operations

Examples:
  sudo linktest reset /dev/ttyUSB0        # Reset by port path
  sudo linktest reset --serial NC7ILXW1   # Reset by serial number`,
	Args: func(cmd *cobra.Command, args []string) error {
		serialFlag, _ := cmd.Flags().GetString("serial")
		if serialFlag == "" && len(args) != 1 {
			return errors.New("requires either a port path argument or --serial flag")
		}
		if serialFlag != "" && len(args) > 0 {
			return errors.New("cannot specify both port path and --serial flag")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if !serial.IsUSBResetAvailable() {
			fmt.Fprintln(os.Stderr, "Error: usbreset utility not available")
			fmt.Fprintln(os.Stderr, "Install with: sudo apt-get install usbutils")
			os.Exit(1)
		}

		serialFlag, _ := cmd.Flags().GetString("serial")

		// Remember the serial number so the device can be located again
		// after it re-enumerates under a possibly different path.
		serialNumber := serialFlag

		var err error
		if serialFlag != "" {
			fmt.Printf("Resetting USB device with serial: %s\n", serialFlag)
			err = serial.ResetUSBDeviceBySerial(serialFlag)
		} else {
			portPath := args[0]
			if info, infoErr := serial.GetPortInfo(portPath); infoErr == nil {
				serialNumber = info.SerialNumber
			}
			fmt.Printf("Resetting USB device: %s\n", portPath)
			err = serial.ResetUSBDevice(portPath)
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, serial.ErrUSBInfoNotAvailable) {
				fmt.Fprintln(os.Stderr, "This device does not appear to be a USB device")
			}
			os.Exit(1)
		}

		fmt.Println("USB device reset successfully")

		if serialNumber == "" {
			fmt.Println("Device will re-enumerate (port path may change)")
			return
		}

		if newPath, ok := awaitReenumeration(serialNumber); ok {
			fmt.Printf("Device re-enumerated at %s\n", newPath)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: device with serial %s has not reappeared yet\n", serialNumber)
		}
	},
}

// awaitReenumeration polls for the device with the given serial number
// to come back after a reset. Re-enumeration typically takes a couple
// of seconds.
func awaitReenumeration(serialNumber string) (string, bool) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if portPath, err := serial.FindPortBySerial(serialNumber); err == nil {
			return portPath, true
		}
		time.Sleep(200 * time.Millisecond)
	}
	return "", false
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().StringP("serial", "s", "", "Reset device by serial number")
}
