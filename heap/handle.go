package heap

// Handle is a stable reference to an object header in the heap's arena.
// None is never a valid object.
//
// A handle stays valid for the lifetime of its object. Once the object is
// reclaimed the slot may be recycled, so a handle retained past its object's
// death can alias a younger object; keeping one reachable (pinned or linked
// from a live object) is the host's job.
type Handle uint32

// None is the null handle.
const None Handle = 0

// TypeTag discriminates object encodings. The heap stores tags without
// interpreting them; the object layer assigns meaning.
type TypeTag uint8
