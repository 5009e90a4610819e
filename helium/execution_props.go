package helium

import (
	"math"
	"strconv"
)

// propSlot is the last step of a prop chain: the container reached by all
// earlier accessors and the key the final accessor selects.
type propSlot struct {
	container Value
	key       Value
	span      Span
}

func (exec *Execution) readProp(prop *Prop, scope *Scope) (Value, error) {
	slot, err := exec.resolveSlot(prop, scope)
	if err != nil {
		return NewNone(), err
	}
	return exec.member(slot.container, slot.key, slot.span)
}

func (exec *Execution) resolveSlot(prop *Prop, scope *Scope) (propSlot, error) {
	current, err := exec.evalNode(prop.Base, scope)
	if err != nil {
		return propSlot{}, err
	}
	last := len(prop.Accessors) - 1
	for _, acc := range prop.Accessors[:last] {
		key, err := exec.accessorKey(acc, scope)
		if err != nil {
			return propSlot{}, err
		}
		if current, err = exec.member(current, key, acc.span); err != nil {
			return propSlot{}, err
		}
	}
	acc := prop.Accessors[last]
	key, err := exec.accessorKey(acc, scope)
	if err != nil {
		return propSlot{}, err
	}
	return propSlot{container: current, key: key, span: acc.span}, nil
}

func (exec *Execution) accessorKey(acc Accessor, scope *Scope) (Value, error) {
	if !acc.IsComputed() {
		return NewString(acc.Name), nil
	}
	return exec.evalReady(acc.Computed, scope)
}

// member reads key from container. Missing keys and out-of-range indexes
// read as None.
func (exec *Execution) member(container, key Value, span Span) (Value, error) {
	switch container.kind {
	case KindObject:
		val, ok := container.Object().Get(FormatValue(key, nil))
		if !ok {
			return NewNone(), nil
		}
		return val, nil
	case KindIterable, KindString:
		idx, ok := listIndex(key)
		if !ok {
			return NewNone(), exec.runtimeErrorAt(span, "Invalid index for the list.")
		}
		if container.kind == KindString {
			runes := []rune(container.Str())
			if idx >= len(runes) {
				return NewNone(), nil
			}
			return NewString(string(runes[idx])), nil
		}
		items := container.Iterable().Items
		if idx >= len(items) {
			return NewNone(), nil
		}
		return items[idx], nil
	default:
		return NewNone(), exec.runtimeErrorAt(span, "Cannot index into a non-iterable: .%s", FormatValue(key, nil))
	}
}

func (exec *Execution) storeMember(slot propSlot, val Value) error {
	switch slot.container.kind {
	case KindObject:
		slot.container.Object().Set(FormatValue(slot.key, nil), val)
		return nil
	case KindIterable:
		idx, ok := listIndex(slot.key)
		if !ok {
			return exec.runtimeErrorAt(slot.span, "Invalid index for the list.")
		}
		it := slot.container.Iterable()
		switch {
		case idx < len(it.Items):
			it.Items[idx] = val
		case idx == len(it.Items):
			it.Items = append(it.Items, val)
		default:
			return exec.runtimeErrorAt(slot.span, "List index out of range.")
		}
		return nil
	case KindString:
		return exec.runtimeErrorAt(slot.span, "Cannot assign into a string.")
	default:
		return exec.runtimeErrorAt(slot.span, "Cannot index into a non-iterable: .%s", FormatValue(slot.key, nil))
	}
}

// listIndex accepts non-negative integers and their decimal spelling.
func listIndex(key Value) (int, bool) {
	switch key.kind {
	case KindNumber:
		n := key.Number()
		if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case KindString:
		s := key.Str()
		if s == "" {
			return 0, false
		}
		for _, r := range s {
			if !isDigit(r) {
				return 0, false
			}
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
