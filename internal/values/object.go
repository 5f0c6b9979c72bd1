package values

// Property holds either a plain data slot or an accessor pair. Exactly one
// of (HasValue) or (Get/Set) is meaningful at a time, mirroring the
// teacher's PropertyDescriptor split between stored fields and
// getter/setter methods (runtime/object.go, LookupProperty).
type Property struct {
	Value      Value
	HasValue   bool
	Get        *Function
	Set        *Function
	Enumerable bool
}

// Object is the prototype-based object model (DATA MODEL: "Object",
// C5). Own properties live in the props map, and the order slice records
// their insertion order for enumeration.
type Object struct {
	Class     string // constructor/class name, "Object" by default; diagnostics only
	Proto     *Object
	props     map[string]Property
	order     []string
	Extensible bool
}

// NewObject allocates an empty object linked to proto (nil for
// Object.prototype-less objects, e.g. created via Object.create(null)).
func NewObject(proto *Object) *Object {
	return &Object{
		Proto:      proto,
		props:      make(map[string]Property),
		Extensible: true,
	}
}

func (o *Object) Kind() string   { return "object" }
func (o *Object) String() string { return "[object " + className(o.Class) + "]" }

func className(c string) string {
	if c == "" {
		return "Object"
	}
	return c
}

// HasOwn reports whether key is an own property of o (no prototype walk).
func (o *Object) HasOwn(key string) bool {
	_, ok := o.props[key]
	return ok
}

// GetOwn returns o's own property descriptor for key.
func (o *Object) GetOwn(key string) (Property, bool) {
	p, ok := o.props[key]
	return p, ok
}

// DefineOwn sets or replaces an own data property, appending to the
// insertion-order list only on first definition.
func (o *Object) DefineOwn(key string, value Value) {
	if _, exists := o.props[key]; !exists {
		o.order = append(o.order, key)
	}
	o.props[key] = Property{Value: value, HasValue: true, Enumerable: true}
}

// DefineAccessor installs a getter and/or setter for key, preserving
// whichever half was previously defined when only one of get/set is given
// (JS semantics: defining just a getter does not clear an existing setter).
func (o *Object) DefineAccessor(key string, get, set *Function) {
	existing, had := o.props[key]
	if !had {
		o.order = append(o.order, key)
	}
	if get == nil && had {
		get = existing.Get
	}
	if set == nil && had {
		set = existing.Set
	}
	o.props[key] = Property{Get: get, Set: set, Enumerable: true}
}

// DeleteOwn removes an own property, returning whether it existed.
func (o *Object) DeleteOwn(key string) bool {
	if _, ok := o.props[key]; !ok {
		return false
	}
	delete(o.props, key)
	for i, k := range o.order {
		if k == key {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys returns own enumerable string keys (JsSymbol-encoded keys, see
// SymbolPropertyKey, are filtered out of for-in/Object.keys enumeration)
// in insertion order.
func (o *Object) OwnKeys() []string {
	out := make([]string, 0, len(o.order))
	for _, k := range o.order {
		if isSymbolKey(k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func isSymbolKey(k string) bool {
	return len(k) >= len(jsSymbolKeyPrefix) && k[:len(jsSymbolKeyPrefix)] == jsSymbolKeyPrefix
}

// LookupProperty walks the prototype chain looking for key, returning the
// descriptor and the object on which it was found. A visited set guards
// against prototype cycles (DATA MODEL invariant: "prototype chain walks
// terminate (cycle-safe)").
func (o *Object) LookupProperty(key string) (Property, *Object, bool) {
	visited := make(map[*Object]bool)
	cur := o
	for cur != nil {
		if visited[cur] {
			return Property{}, nil, false
		}
		visited[cur] = true
		if p, ok := cur.props[key]; ok {
			return p, cur, true
		}
		cur = cur.Proto
	}
	return Property{}, nil, false
}

// Getter looks up an accessor's getter along the prototype chain.
func (o *Object) Getter(key string) *Function {
	if p, _, ok := o.LookupProperty(key); ok {
		return p.Get
	}
	return nil
}

// Setter looks up an accessor's setter along the prototype chain.
func (o *Object) Setter(key string) *Function {
	if p, _, ok := o.LookupProperty(key); ok {
		return p.Set
	}
	return nil
}
