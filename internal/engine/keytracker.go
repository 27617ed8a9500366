package engine

// KeyTracker converts the flat token stream of encoding/json style decoders,
// which report object keys as plain strings, into engine tokens.
type KeyTracker struct {
	stack []keyFrame
}

type keyFrame struct {
	object    bool
	expectKey bool
}

// Begin records an opening delimiter and returns its token kind.
func (k *KeyTracker) Begin(object bool) Kind {
	k.stack = append(k.stack, keyFrame{object: object, expectKey: object})
	if object {
		return KindBeginObject
	}
	return KindBeginArray
}

// End records a closing delimiter and returns its token kind.
func (k *KeyTracker) End(object bool) Kind {
	if n := len(k.stack); n > 0 {
		k.stack = k.stack[:n-1]
	}
	k.valueDone()
	if object {
		return KindEndObject
	}
	return KindEndArray
}

// String classifies a string token as a key or a string value.
func (k *KeyTracker) String() Kind {
	if n := len(k.stack); n > 0 && k.stack[n-1].object && k.stack[n-1].expectKey {
		k.stack[n-1].expectKey = false
		return KindKey
	}
	k.valueDone()
	return KindString
}

// Scalar records a non-string scalar value.
func (k *KeyTracker) Scalar() { k.valueDone() }

func (k *KeyTracker) valueDone() {
	if n := len(k.stack); n > 0 && k.stack[n-1].object {
		k.stack[n-1].expectKey = true
	}
}
