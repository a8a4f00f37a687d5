package heap

// Color is the tri-color mark state of an object. Two white shades
// alternate between collection cycles so that objects born during a sweep
// are not mistaken for unvisited garbage.
type Color uint8

const (
	// WhiteA and WhiteB are the two white shades. Exactly one of them is
	// the heap's current white at any time; the other marks objects the
	// previous cycle proved unreachable.
	WhiteA Color = iota
	WhiteB

	// Gray objects are reachable but their outgoing references have not
	// been scanned yet.
	Gray

	// Black objects are reachable and fully scanned.
	Black
)

// IsWhite reports whether c is either white shade.
func (c Color) IsWhite() bool {
	return c == WhiteA || c == WhiteB
}

func (c Color) String() string {
	switch c {
	case WhiteA:
		return "white-a"
	case WhiteB:
		return "white-b"
	case Gray:
		return "gray"
	case Black:
		return "black"
	default:
		return "invalid"
	}
}
