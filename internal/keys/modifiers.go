package keys

// CGEventFlags patterns seen on flags-changed events for each modifier.
// Down and up patterns are independent literals taken from observed events;
// the up pattern is not the complement of the down pattern.
const (
	FlagMaskOptionDown uint64 = 524576
	FlagMaskOptionUp   uint64 = 256

	FlagMaskCommandDown uint64 = 1048840
	FlagMaskCommandUp   uint64 = 256

	FlagMaskControlDown uint64 = 262401
	FlagMaskControlUp   uint64 = 256

	FlagMaskShiftDown uint64 = 131330
	FlagMaskShiftUp   uint64 = 256
)

// IsDown reports whether flags carry the press pattern of the modifier with the
// given key code. Only command, shift, option and control are classified.
func IsDown(code int64, flags uint64) bool {
	switch code {
	case CodeCommand:
		return flags&FlagMaskCommandDown != 0
	case CodeShift:
		return flags&FlagMaskShiftDown != 0
	case CodeOption:
		return flags&FlagMaskOptionDown != 0
	case CodeControl:
		return flags&FlagMaskControlDown != 0
	default:
		return false
	}
}

// IsUp reports whether flags carry the release pattern of the modifier.
func IsUp(code int64, flags uint64) bool {
	switch code {
	case CodeCommand:
		return flags&FlagMaskCommandUp != 0
	case CodeShift:
		return flags&FlagMaskShiftUp != 0
	case CodeOption:
		return flags&FlagMaskOptionUp != 0
	case CodeControl:
		return flags&FlagMaskControlUp != 0
	default:
		return false
	}
}

// IsLeaderCapable reports whether a symbol names a modifier the classifier
// can detect presses and releases for.
func IsLeaderCapable(symbol string) bool {
	code, ok := Code(symbol)
	if !ok {
		return false
	}
	switch code {
	case CodeCommand, CodeShift, CodeOption, CodeControl:
		return true
	}
	return false
}
