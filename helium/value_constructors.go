package helium

func NewNone() Value            { return Value{kind: KindNone} }
func NewBoolean(b bool) Value   { return Value{kind: KindBoolean, data: b} }
func NewNumber(n float64) Value { return Value{kind: KindNumber, data: n} }
func NewString(s string) Value  { return Value{kind: KindString, data: s} }

func NewIterable(items []Value) Value {
	return Value{kind: KindIterable, data: &Iterable{Items: items}}
}

func NewObject(obj *Object) Value { return Value{kind: KindObject, data: obj} }

func NewFunction(fn *Function) Value {
	return Value{kind: KindFunction, data: fn}
}

func NewNative(name string, fn NativeFunc) Value {
	return NewFunction(&Function{Name: name, Native: fn})
}

// NewObjectMap builds an object from pairs, keeping their order.
func NewObjectMap(pairs ...ObjectPair) Value {
	obj := newObject()
	for _, pair := range pairs {
		obj.Set(pair.Key, pair.Value)
	}
	return NewObject(obj)
}

type ObjectPair struct {
	Key   string
	Value Value
}

func newObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (o *Object) Get(key string) (Value, bool) {
	val, ok := o.values[key]
	return val, ok
}

func (o *Object) Set(key string, val Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = val
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) Len() int { return len(o.keys) }
