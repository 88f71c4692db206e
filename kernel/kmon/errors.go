package kmon

import "github.com/KyeeHuang/mit-jos/kernel"

var (
	// ErrParseNumber is returned when a numeric token contains characters
	// that are not valid in the requested base or does not fit in a
	// virtual address.
	ErrParseNumber = &kernel.Error{Module: "kmon", Message: "malformed number"}

	// ErrUsage is returned when a command receives the wrong number or
	// shape of arguments.
	ErrUsage = &kernel.Error{Module: "kmon", Message: "wrong number or format of arguments"}

	// ErrUnknownMnemonic is returned when a permission string contains a
	// letter without a matching permission bit.
	ErrUnknownMnemonic = &kernel.Error{Module: "kmon", Message: "unknown permission letter"}

	// ErrEmptyRange is returned when the range arguments of a command resolve to
	// zero pages.
	ErrEmptyRange = &kernel.Error{Module: "kmon", Message: "address range does not contain any pages"}

	// ErrRangeOverflow is returned when a range extends past the top of the
	// virtual address space.
	ErrRangeOverflow = &kernel.Error{Module: "kmon", Message: "address range exceeds the virtual address space"}

	errTooManyArgs = &kernel.Error{Module: "kmon", Message: "Too many arguments"}
	errExit        = &kernel.Error{Module: "kmon", Message: "monitor exit requested"}
)
