package model

import "fmt"

// ComputeDevice selects which compute units a backend may schedule work on.
type ComputeDevice int

const (
	// DeviceAuto lets the backend prefer the neural accelerator when present
	DeviceAuto ComputeDevice = iota

	// DeviceCPU restricts inference to the CPU
	DeviceCPU

	// DeviceAll allows every available device, including GPU and accelerator
	DeviceAll
)

// String returns the configuration name of the device selection.
func (d ComputeDevice) String() string {
	switch d {
	case DeviceAuto:
		return "auto"
	case DeviceCPU:
		return "cpu"
	case DeviceAll:
		return "all"
	default:
		return fmt.Sprintf("ComputeDevice(%d)", int(d))
	}
}

// ParseComputeDevice parses a user-facing device name.
func ParseComputeDevice(s string) (ComputeDevice, error) {
	switch s {
	case "auto", "":
		return DeviceAuto, nil
	case "cpu":
		return DeviceCPU, nil
	case "all":
		return DeviceAll, nil
	default:
		return DeviceAuto, fmt.Errorf("unknown compute device %q (want auto, cpu or all)", s)
	}
}
