package allocator

// RegionType describes whether a physical memory region can be handed out
// by an allocator.
type RegionType uint32

const (
	// RegionAvailable indicates that the memory region is available for use.
	RegionAvailable RegionType = iota + 1

	// RegionReserved indicates that the memory region is not available for use.
	RegionReserved

	// RegionACPIReclaimable indicates a memory region that holds ACPI info
	// that can be reused by the OS.
	RegionACPIReclaimable

	// RegionNVS indicates memory that must be preserved when hibernating.
	RegionNVS
)

// String implements fmt.Stringer for RegionType.
func (t RegionType) String() string {
	switch t {
	case RegionAvailable:
		return "available"
	case RegionReserved:
		return "reserved"
	case RegionACPIReclaimable:
		return "ACPI (reclaimable)"
	case RegionNVS:
		return "NVS"
	default:
		return "unknown"
	}
}

// ParseRegionType returns the RegionType whose String value matches name.
// Unknown names are reported as RegionReserved and ok is set to false.
func ParseRegionType(name string) (t RegionType, ok bool) {
	for t = RegionAvailable; t <= RegionNVS; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return RegionReserved, false
}

// Region describes a contiguous block of physical memory.
type Region struct {
	// The physical address for this memory region.
	PhysAddress uint64

	// The length of the memory region in bytes.
	Length uint64

	Type RegionType
}

// End returns the first physical address past the region.
func (r Region) End() uint64 {
	return r.PhysAddress + r.Length
}
