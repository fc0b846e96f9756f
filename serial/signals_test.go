package serial

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

// TestSignalMaskToTIOCM tests the signal mask conversion
func TestSignalMaskToTIOCM(t *testing.T) {
	tests := []struct {
		name     string
		mask     SignalMask
		expected int
	}{
		{
			name:     "CTS only",
			mask:     SignalCTS,
			expected: unix.TIOCM_CTS,
		},
		{
			name:     "DSR only",
			mask:     SignalDSR,
			expected: unix.TIOCM_DSR,
		},
		{
			name:     "RI only",
			mask:     SignalRI,
			expected: unix.TIOCM_RI,
		},
		{
			name:     "DCD only",
			mask:     SignalDCD,
			expected: unix.TIOCM_CAR,
		},
		{
			name:     "Multiple signals",
			mask:     SignalCTS | SignalDSR,
			expected: unix.TIOCM_CTS | unix.TIOCM_DSR,
		},
		{
			name:     "All signals",
			mask:     SignalCTS | SignalDSR | SignalRI | SignalDCD,
			expected: unix.TIOCM_CTS | unix.TIOCM_DSR | unix.TIOCM_RI | unix.TIOCM_CAR,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := signalMaskToTIOCM(tt.mask)
			if result != tt.expected {
				t.Errorf("signalMaskToTIOCM(%v) = %v, want %v", tt.mask, result, tt.expected)
			}
		})
	}
}

// TestSignalsFromStatus tests decoding the modem status register
func TestSignalsFromStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected ModemSignals
	}{
		{
			name:     "All low",
			status:   0,
			expected: ModemSignals{},
		},
		{
			name:     "CTS high",
			status:   unix.TIOCM_CTS,
			expected: ModemSignals{CTS: true},
		},
		{
			name:     "DSR high",
			status:   unix.TIOCM_DSR,
			expected: ModemSignals{DSR: true},
		},
		{
			name:     "DCD high",
			status:   unix.TIOCM_CAR,
			expected: ModemSignals{DCD: true},
		},
		{
			name:     "Outputs reflected",
			status:   unix.TIOCM_RTS | unix.TIOCM_DTR,
			expected: ModemSignals{RTS: true, DTR: true},
		},
		{
			name:     "Everything high",
			status:   unix.TIOCM_CTS | unix.TIOCM_DSR | unix.TIOCM_RI | unix.TIOCM_CAR | unix.TIOCM_RTS | unix.TIOCM_DTR,
			expected: ModemSignals{CTS: true, DSR: true, RI: true, DCD: true, RTS: true, DTR: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := signalsFromStatus(tt.status)
			if result != tt.expected {
				t.Errorf("signalsFromStatus(%#x) = %+v, want %+v", tt.status, result, tt.expected)
			}
		})
	}
}

// TestDetectSignalChanges tests signal change detection
func TestDetectSignalChanges(t *testing.T) {
	tests := []struct {
		name      string
		oldStatus int
		newStatus int
		expected  SignalMask
	}{
		{
			name:      "No change",
			oldStatus: unix.TIOCM_CTS | unix.TIOCM_DSR,
			newStatus: unix.TIOCM_CTS | unix.TIOCM_DSR,
			expected:  0,
		},
		{
			name:      "CTS changed",
			oldStatus: 0,
			newStatus: unix.TIOCM_CTS,
			expected:  SignalCTS,
		},
		{
			name:      "DSR changed",
			oldStatus: 0,
			newStatus: unix.TIOCM_DSR,
			expected:  SignalDSR,
		},
		{
			name:      "RI changed",
			oldStatus: 0,
			newStatus: unix.TIOCM_RI,
			expected:  SignalRI,
		},
		{
			name:      "DCD changed",
			oldStatus: 0,
			newStatus: unix.TIOCM_CAR,
			expected:  SignalDCD,
		},
		{
			name:      "Multiple signals changed",
			oldStatus: 0,
			newStatus: unix.TIOCM_CTS | unix.TIOCM_DSR,
			expected:  SignalCTS | SignalDSR,
		},
		{
			name:      "Signal went low",
			oldStatus: unix.TIOCM_CTS,
			newStatus: 0,
			expected:  SignalCTS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detectSignalChanges(tt.oldStatus, tt.newStatus)
			if result != tt.expected {
				t.Errorf("detectSignalChanges(%v, %v) = %v, want %v", tt.oldStatus, tt.newStatus, result, tt.expected)
			}
		})
	}
}

// TestWaitForSignalChangeInvalidMask tests error handling for invalid signal masks
func TestWaitForSignalChangeInvalidMask(t *testing.T) {
	p := &port{closed: true}

	_, _, err := p.WaitForSignalChange(context.Background(), 0)
	if !errors.Is(err, ErrInvalidSignalMask) {
		t.Errorf("WaitForSignalChange(ctx, 0) error = %v, want %v", err, ErrInvalidSignalMask)
	}
}

// TestSignalMethodsOnClosedPort tests that methods return appropriate errors on closed ports
func TestSignalMethodsOnClosedPort(t *testing.T) {
	p := &port{closed: true}

	t.Run("GetModemSignals", func(t *testing.T) {
		_, err := p.GetModemSignals()
		if !errors.Is(err, ErrPortClosed) {
			t.Errorf("GetModemSignals() error = %v, want %v", err, ErrPortClosed)
		}
	})

	t.Run("ReadCTS", func(t *testing.T) {
		_, err := p.ReadCTS()
		if !errors.Is(err, ErrPortClosed) {
			t.Errorf("ReadCTS() error = %v, want %v", err, ErrPortClosed)
		}
	})

	t.Run("ReadDSR", func(t *testing.T) {
		_, err := p.ReadDSR()
		if !errors.Is(err, ErrPortClosed) {
			t.Errorf("ReadDSR() error = %v, want %v", err, ErrPortClosed)
		}
	})

	t.Run("SetRTS", func(t *testing.T) {
		if err := p.SetRTS(true); !errors.Is(err, ErrPortClosed) {
			t.Errorf("SetRTS(true) error = %v, want %v", err, ErrPortClosed)
		}
	})

	t.Run("SetDTR", func(t *testing.T) {
		if err := p.SetDTR(true); !errors.Is(err, ErrPortClosed) {
			t.Errorf("SetDTR(true) error = %v, want %v", err, ErrPortClosed)
		}
	})

	t.Run("WaitForSignalChange", func(t *testing.T) {
		_, _, err := p.WaitForSignalChange(context.Background(), SignalCTS)
		if !errors.Is(err, ErrPortClosed) {
			t.Errorf("WaitForSignalChange(ctx, SignalCTS) error = %v, want %v", err, ErrPortClosed)
		}
	})
}
