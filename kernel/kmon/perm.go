package kmon

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
)

// permLegend lists the letter used for each permission bit when rendering
// entries, ordered from the most significant bit (G) to the least
// significant one (P). The attribute index bit (I) is displayed but cannot
// be selected with a mnemonic.
var permLegend = [vmm.FlagBits]byte{'G', 'I', 'D', 'A', 'C', 'T', 'U', 'W', 'P'}

// FlagForLetter maps a permission mnemonic to the page table entry flag it
// controls.
func FlagForLetter(letter byte) (vmm.PageTableEntryFlag, bool) {
	switch letter {
	case 'G':
		return vmm.FlagGlobal, true
	case 'D':
		return vmm.FlagDirty, true
	case 'A':
		return vmm.FlagAccessed, true
	case 'C':
		return vmm.FlagDoNotCache, true
	case 'T':
		return vmm.FlagWriteThroughCaching, true
	case 'U':
		return vmm.FlagUserAccessible, true
	case 'W':
		return vmm.FlagRW, true
	case 'P':
		return vmm.FlagPresent, true
	}
	return 0, false
}

// ParseMask combines the flags for every mnemonic in letters. The present
// bit is always stripped from the result so that a mask can never be used
// to map or unmap a page.
func ParseMask(letters string) (vmm.PageTableEntryFlag, *kernel.Error) {
	var mask vmm.PageTableEntryFlag
	for i := 0; i < len(letters); i++ {
		flag, ok := FlagForLetter(letters[i])
		if !ok {
			return 0, ErrUnknownMnemonic
		}
		mask |= flag
	}

	return mask &^ vmm.FlagPresent, nil
}

// FormatFlags renders the permission bits of flags as a vmm.FlagBits-wide
// string of '0' and '1' characters, most significant bit first.
func FormatFlags(flags vmm.PageTableEntryFlag) string {
	var out [vmm.FlagBits]byte
	for bit := 0; bit < vmm.FlagBits; bit++ {
		out[vmm.FlagBits-1-bit] = '0' + byte((flags>>uint(bit))&1)
	}
	return string(out[:])
}

// DescribeFlags returns the legend letters of the bits set in flags, in
// rendering order.
func DescribeFlags(flags vmm.PageTableEntryFlag) string {
	var (
		out [vmm.FlagBits]byte
		n   int
	)

	for index, letter := range permLegend {
		if flags&(1<<uint(vmm.FlagBits-1-index)) != 0 {
			out[n] = letter
			n++
		}
	}
	return string(out[:n])
}
