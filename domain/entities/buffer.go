package entities

import "math"

// BufferActionKind selects how a BufferAction modifies a buffer.
type BufferActionKind int

const (
	// BufferPrepend inserts data at the start of the buffer.
	BufferPrepend BufferActionKind = iota
	// BufferAppend adds data at the end of the buffer.
	BufferAppend
	// BufferReplace substitutes the whole buffer content.
	BufferReplace
)

func (k BufferActionKind) String() string {
	switch k {
	case BufferPrepend:
		return "prepend"
	case BufferAppend:
		return "append"
	case BufferReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// BufferAction is a mutation of a body or connection data buffer.
type BufferAction struct {
	Data []byte
	Kind BufferActionKind
}

// Prepend returns an action that inserts data at the start of the buffer.
func Prepend(data []byte) BufferAction {
	return BufferAction{Kind: BufferPrepend, Data: data}
}

// Append returns an action that adds data at the end of the buffer.
func Append(data []byte) BufferAction {
	return BufferAction{Kind: BufferAppend, Data: data}
}

// Replace returns an action that substitutes the whole buffer content.
func Replace(data []byte) BufferAction {
	return BufferAction{Kind: BufferReplace, Data: data}
}

// Range returns the (start, length) arguments of proxy_set_buffer_bytes
// that implement the action.
func (a BufferAction) Range() (start, length uint32) {
	switch a.Kind {
	case BufferPrepend:
		return 0, 0
	case BufferReplace:
		return 0, math.MaxUint32
	default:
		return math.MaxUint32, math.MaxUint32
	}
}
