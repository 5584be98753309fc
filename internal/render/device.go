package render

// DeviceType mirrors the physical device classes a driver reports.
type DeviceType int

const (
	DeviceOther DeviceType = iota
	DeviceIntegrated
	DeviceDiscrete
	DeviceVirtual
	DeviceCPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceIntegrated:
		return "integrated"
	case DeviceDiscrete:
		return "discrete"
	case DeviceVirtual:
		return "virtual"
	case DeviceCPU:
		return "cpu"
	default:
		return "other"
	}
}

// PhysicalDeviceInfo describes one enumerated GPU.
type PhysicalDeviceInfo struct {
	Name string
	Type DeviceType
}

// QueueFamilyInfo describes the capabilities of one queue family on the
// selected GPU, in enumeration order.
type QueueFamilyInfo struct {
	Graphics bool
	Present  bool
}

// SelectPhysicalDevice returns the index of the first discrete GPU in
// enumeration order, or 0 when there is none.
func SelectPhysicalDevice(devices []PhysicalDeviceInfo) (int, error) {
	if len(devices) == 0 {
		return 0, ErrNoDevice
	}
	for i, dev := range devices {
		if dev.Type == DeviceDiscrete {
			return i, nil
		}
	}
	return 0, nil
}

// FindQueueFamily returns the first family able to both draw and present.
func FindQueueFamily(families []QueueFamilyInfo) (uint32, error) {
	for i, f := range families {
		if f.Graphics && f.Present {
			return uint32(i), nil
		}
	}
	return 0, ErrNoQueueFamily
}
