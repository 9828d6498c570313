package curve

// Op is the interpreter action bound to a symbol.
type Op uint8

const (
	OpNoop      Op = iota // inert nonterminal
	OpDraw                // advance the palette and draw one step
	OpMove                // move one step with the pen up
	OpTurnRight           // '+'
	OpTurnLeft            // '-'
	OpPush                // '[': save the pose
	OpPop                 // ']': restore the last saved pose
	OpStamp               // mark the current position
)

var opNames = [...]string{
	OpNoop:      "noop",
	OpDraw:      "draw",
	OpMove:      "move",
	OpTurnRight: "turn-right",
	OpTurnLeft:  "turn-left",
	OpPush:      "push",
	OpPop:       "pop",
	OpStamp:     "stamp",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Reserved symbols shared by every curve.
const (
	SymTurnRight byte = '+'
	SymTurnLeft  byte = '-'
	SymPush      byte = '['
	SymPop       byte = ']'
)

// Default symbol sets for descriptors that leave them empty.
const (
	DefaultDraw  = "F"
	DefaultMove  = "f"
	DefaultStamp = "S"
)

// OpTable maps every byte to its Op.
type OpTable [256]Op
