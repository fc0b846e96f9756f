// Package serial provides the Linux serial port layer for the linktest
// conformance tester: opening and configuring tty devices, byte I/O,
// live baud-rate changes, input-buffer inspection, and direct control of
// the RS-232 modem lines (RTS, DTR) plus reads of their paired inputs
// (CTS, DSR, RI, DCD).
//
// # Basic Usage
//
// Open a serial port with default configuration (9600 8N1, no flow control):
//
//	port, err := serial.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	n, err := port.Write([]byte("Hello"))
//	buffer := make([]byte, 256)
//	n, err = port.Read(buffer)
//
// # Configuration Options
//
// Use functional options for custom configuration:
//
//	port, err := serial.Open("/dev/ttyUSB0",
//	    serial.WithBaudRate(115200),
//	    serial.WithInitialRTS(false),
//	    serial.WithInitialDTR(false),
//	)
//
// # Modem Lines
//
// Output lines are driven with SetRTS/SetDTR; input lines are sampled
// with ReadCTS/ReadDSR/ReadRI/ReadDCD or all at once with
// GetModemSignals. WaitForSignalChange blocks in the kernel
// (TIOCMIWAIT) until one of the masked lines transitions.
//
// Implementations of Port may answer status reads from cached state.
// Wrap a port with FixStatusLines to force every status read through a
// live modem-status-register query:
//
//	port = serial.FixStatusLines(port)
//
// # Port Discovery
//
// ListPorts scans /dev for communication-capable devices; GetPortInfo
// adds USB metadata (vendor/product IDs, serial number, bus and device
// numbers) from sysfs. ResetUSBDevice recovers hung USB adapters via
// the usbreset utility.
//
// # Platform Support
//
// This package targets Linux. On other platforms neither the termios
// configuration nor the TIOCM ioctls are available, and modem-status
// coverage is a documented gap rather than a silent success.
package serial
