package kmon

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
)

// hexPrefix marks a token as a hexadecimal address.
const hexPrefix = "0x"

// ParseNumber parses token as an unsigned integer in base 10 or base 16.
// Base 16 accepts digits and lower-case a-f only; the 0x prefix must be
// stripped by the caller. Empty tokens, unsupported characters and values
// that do not fit in a virtual address yield ErrParseNumber.
func ParseNumber(token string, base int) (uintptr, *kernel.Error) {
	if (base != 10 && base != 16) || len(token) == 0 {
		return 0, ErrParseNumber
	}

	// Accumulate in 64 bits so the overflow check also works on 32-bit hosts.
	var value uint64
	for i := 0; i < len(token); i++ {
		digit, ok := digitValue(token[i], base)
		if !ok {
			return 0, ErrParseNumber
		}

		if value = value*uint64(base) + digit; value > uint64(vmm.MaxVirtAddr) {
			return 0, ErrParseNumber
		}
	}

	return uintptr(value), nil
}

// digitValue returns the value of ch when interpreted as a digit in base.
func digitValue(ch byte, base int) (uint64, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return uint64(ch - '0'), true
	case base == 16 && ch >= 'a' && ch <= 'f':
		return uint64(ch-'a') + 10, true
	}
	return 0, false
}

// isHex returns true if token is written with the 0x prefix.
func isHex(token string) bool {
	return len(token) >= len(hexPrefix) && token[:len(hexPrefix)] == hexPrefix
}

// parseHex parses a 0x-prefixed token.
func parseHex(token string) (uintptr, *kernel.Error) {
	if !isHex(token) {
		return 0, ErrParseNumber
	}
	return ParseNumber(token[len(hexPrefix):], 16)
}
