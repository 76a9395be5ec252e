// Package device models the compute targets classifiers can be bound to and
// picks the best one available on this host.
package device

import (
	"fmt"
	"strings"
)

// Device is a compute target. Declaration order is preference order.
type Device int

const (
	CUDA Device = iota
	CoreML
	CPU
)

// Baseline is the always-available fallback device.
const Baseline = CPU

func (d Device) String() string {
	switch d {
	case CUDA:
		return "cuda"
	case CoreML:
		return "coreml"
	case CPU:
		return "cpu"
	default:
		return fmt.Sprintf("device(%d)", int(d))
	}
}

// IsBaseline reports whether d is the fallback device.
func (d Device) IsBaseline() bool {
	return d == Baseline
}

func (d Device) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Device) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse converts a device name into a Device. "gpu" is accepted as CUDA and
// "mps" as CoreML.
func Parse(name string) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cuda", "gpu":
		return CUDA, nil
	case "coreml", "mps":
		return CoreML, nil
	case "cpu":
		return CPU, nil
	default:
		return CPU, fmt.Errorf("unknown device %q", name)
	}
}
