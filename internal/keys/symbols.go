package keys

// Unknown is returned by Symbol for key codes missing from the table.
const Unknown = "unknown"

// Virtual key codes of the modifier keys the classifier understands.
const (
	CodeCommand int64 = 55
	CodeShift   int64 = 56
	CodeOption  int64 = 58
	CodeControl int64 = 59
)

// symbols maps macOS virtual key codes (ANSI layout) to symbol names.
// Shifted variants are not distinguished.
var symbols = map[int64]string{
	0:   "a",
	1:   "s",
	2:   "d",
	3:   "f",
	4:   "h",
	5:   "g",
	6:   "z",
	7:   "x",
	8:   "c",
	9:   "v",
	11:  "b",
	12:  "q",
	13:  "w",
	14:  "e",
	15:  "r",
	16:  "y",
	17:  "t",
	18:  "1",
	19:  "2",
	20:  "3",
	21:  "4",
	22:  "6",
	23:  "5",
	24:  "=",
	25:  "9",
	26:  "7",
	27:  "-",
	28:  "8",
	29:  "0",
	30:  "]",
	31:  "o",
	32:  "u",
	33:  "[",
	34:  "i",
	35:  "p",
	36:  "return",
	37:  "l",
	38:  "j",
	39:  "'",
	40:  "k",
	41:  ";",
	42:  "\\",
	43:  ",",
	44:  "/",
	45:  "n",
	46:  "m",
	47:  ".",
	48:  "tab",
	49:  "space",
	50:  "`",
	51:  "delete",
	53:  "escape",
	55:  "command",
	56:  "shift",
	57:  "capslock",
	58:  "option",
	59:  "control",
	60:  "rightshift",
	61:  "rightoption",
	62:  "rightcontrol",
	63:  "fn",
	64:  "f17",
	65:  "keypad.",
	67:  "keypad*",
	69:  "keypad+",
	71:  "keypadclear",
	75:  "keypad/",
	76:  "keypadenter",
	78:  "keypad-",
	79:  "f18",
	80:  "f19",
	81:  "keypad=",
	82:  "keypad0",
	83:  "keypad1",
	84:  "keypad2",
	85:  "keypad3",
	86:  "keypad4",
	87:  "keypad5",
	88:  "keypad6",
	89:  "keypad7",
	90:  "f20",
	91:  "keypad8",
	92:  "keypad9",
	96:  "f5",
	97:  "f6",
	98:  "f7",
	99:  "f3",
	100: "f8",
	101: "f9",
	103: "f11",
	105: "f13",
	106: "f16",
	107: "f14",
	109: "f10",
	111: "f12",
	113: "f15",
	114: "help",
	115: "home",
	116: "pageup",
	117: "forwarddelete",
	118: "f4",
	119: "end",
	120: "f2",
	121: "pagedown",
	122: "f1",
	123: "left",
	124: "right",
	125: "down",
	126: "up",
}

// Symbol returns the symbol name of a virtual key code, or Unknown.
func Symbol(code int64) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return Unknown
}

// Code returns the key code for a symbol name.
func Code(symbol string) (int64, bool) {
	for code, s := range symbols {
		if s == symbol {
			return code, true
		}
	}
	return 0, false
}

// Split breaks a key-sequence string into the known symbols it is made of,
// preferring the longest symbol at each position. It reports false when some
// part of the string is not a symbol, meaning no typed sequence can produce it.
func Split(sequence string) ([]string, bool) {
	var parts []string
	for rest := sequence; rest != ""; {
		best := ""
		for _, s := range symbols {
			if len(s) > len(best) && len(s) <= len(rest) && rest[:len(s)] == s {
				best = s
			}
		}
		if best == "" {
			return parts, false
		}
		parts = append(parts, best)
		rest = rest[len(best):]
	}
	return parts, true
}
