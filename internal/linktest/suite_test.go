package linktest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/allbin/linktest/internal/tap"
	"github.com/allbin/linktest/serial"
)

func TestSuitePlan(t *testing.T) {
	tests := []struct {
		name  string
		bauds []int
		want  int
	}{
		{
			name: "default grid",
			want: 134,
		},
		{
			name:  "single baud rate",
			bauds: []int{9600},
			want:  2 + 4 + 32,
		},
		{
			name:  "two baud rates",
			bauds: []int{9600, 115200},
			want:  2 + 4 + 64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Suite{BaudRates: tt.bauds}
			if got := s.Plan(); got != tt.want {
				t.Errorf("Plan() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSuiteRunAllPass(t *testing.T) {
	first, second := newWiredPair()
	suite := &Suite{
		FirstPath:  "/dev/ttyFAKE0",
		SecondPath: "/dev/ttyFAKE1",
		BaudRates:  []int{9600},
		Short:      true,
		Log:        testLogger(),
		open: func(path string) (serial.Port, error) {
			if path == "/dev/ttyFAKE0" {
				return first, nil
			}
			return second, nil
		},
	}

	var buf bytes.Buffer
	rep := tap.New(&buf, suite.Plan())
	if err := suite.Run(rep); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if rep.Count() != suite.Plan() {
		t.Errorf("reported %d checks, plan is %d", rep.Count(), suite.Plan())
	}
	if rep.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0\noutput:\n%s", rep.Failed(), buf.String())
	}
	if strings.Contains(buf.String(), "# SKIP") {
		t.Error("no checks should be skipped when both ports open")
	}
	if first.baud != 9600 || second.baud != 9600 {
		t.Errorf("ports not reconfigured: %d / %d", first.baud, second.baud)
	}
}

func TestSuiteSkipsEverythingWhenOpenFails(t *testing.T) {
	first, _ := newWiredPair()
	suite := &Suite{
		FirstPath:  "/dev/ttyFAKE0",
		SecondPath: "/dev/ttyMISSING",
		BaudRates:  []int{9600},
		Short:      true,
		Log:        testLogger(),
		open: func(path string) (serial.Port, error) {
			if path == "/dev/ttyFAKE0" {
				return first, nil
			}
			return nil, errors.New("no such device")
		},
	}

	var buf bytes.Buffer
	rep := tap.New(&buf, suite.Plan())
	if err := suite.Run(rep); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if rep.Count() != suite.Plan() {
		t.Errorf("reported %d checks, plan is %d", rep.Count(), suite.Plan())
	}
	// The failed open is the only not ok; every actual check is skipped.
	if rep.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", rep.Failed())
	}
	if got := strings.Count(buf.String(), "# SKIP"); got != suite.Plan()-2 {
		t.Errorf("skipped %d checks, want %d", got, suite.Plan()-2)
	}
	if !first.closed {
		t.Error("the port that opened should still be closed")
	}
}

func TestSuiteConfigurationFailureAborts(t *testing.T) {
	first, second := newWiredPair()
	second.failBaud = true

	suite := &Suite{
		FirstPath:  "/dev/ttyFAKE0",
		SecondPath: "/dev/ttyFAKE1",
		BaudRates:  []int{9600},
		Short:      true,
		Log:        testLogger(),
		open: func(path string) (serial.Port, error) {
			if path == "/dev/ttyFAKE0" {
				return first, nil
			}
			return second, nil
		},
	}

	var buf bytes.Buffer
	rep := tap.New(&buf, suite.Plan())
	err := suite.Run(rep)
	if err == nil {
		t.Fatal("expected a configuration failure to abort the run")
	}
	if !strings.Contains(err.Error(), "baud rate") {
		t.Errorf("error = %v, want a baud rate configuration error", err)
	}
}

func TestSuiteRunIsRepeatable(t *testing.T) {
	first, second := newWiredPair()
	open := func(path string) (serial.Port, error) {
		if path == "/dev/ttyFAKE0" {
			return first, nil
		}
		return second, nil
	}

	for run := 0; run < 2; run++ {
		suite := &Suite{
			FirstPath:  "/dev/ttyFAKE0",
			SecondPath: "/dev/ttyFAKE1",
			BaudRates:  []int{9600},
			Short:      true,
			Log:        testLogger(),
			open:       open,
		}
		var buf bytes.Buffer
		rep := tap.New(&buf, suite.Plan())
		if err := suite.Run(rep); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if rep.Failed() != 0 {
			t.Errorf("run %d: Failed() = %d, want 0", run, rep.Failed())
		}
	}
}
