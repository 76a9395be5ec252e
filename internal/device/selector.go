package device

import (
	"log/slog"
	"os"
	"runtime"
)

// Probe reports whether an accelerator is usable on this host.
type Probe func() bool

// Selector picks the most preferred available device.
type Selector struct {
	probes map[Device]Probe
	pinned *Device
}

// Option configures a Selector.
type Option func(*Selector)

// WithProbe overrides the probe used for an accelerator.
func WithProbe(d Device, p Probe) Option {
	return func(s *Selector) {
		s.probes[d] = p
	}
}

// WithPinned skips probing and always selects d.
func WithPinned(d Device) Option {
	return func(s *Selector) {
		s.pinned = &d
	}
}

// NewSelector builds a Selector with host probes for CUDA and CoreML.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		probes: map[Device]Probe{
			CUDA:   ProbeCUDA,
			CoreML: ProbeCoreML,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the first available accelerator in preference order, or the
// baseline device. It never fails.
func (s *Selector) Select() Device {
	if s.pinned != nil {
		slog.Info("[DeviceSelector] Using pinned device", slog.String("device", s.pinned.String()))
		return *s.pinned
	}

	for _, d := range []Device{CUDA, CoreML} {
		if probe, ok := s.probes[d]; ok && safeProbe(d, probe) {
			slog.Info("[DeviceSelector] Accelerator available", slog.String("device", d.String()))
			return d
		}
	}

	slog.Info("[DeviceSelector] No accelerator found, using baseline", slog.String("device", Baseline.String()))
	return Baseline
}

func safeProbe(d Device, probe Probe) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("[DeviceSelector] Probe panicked, treating device as unavailable",
				slog.String("device", d.String()),
				slog.Any("panic", r))
			ok = false
		}
	}()
	return probe()
}

var nvidiaMarkers = []string{"/dev/nvidiactl", "/proc/driver/nvidia/version"}

// ProbeCUDA checks for an NVIDIA driver that has not been hidden with
// CUDA_VISIBLE_DEVICES=-1.
func ProbeCUDA() bool {
	if v, ok := os.LookupEnv("CUDA_VISIBLE_DEVICES"); ok && (v == "-1" || v == "") {
		return false
	}
	for _, marker := range nvidiaMarkers {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}
	return false
}

// ProbeCoreML reports whether the CoreML execution provider can exist here.
func ProbeCoreML() bool {
	return runtime.GOOS == "darwin"
}
