package codec

import "reflect"

// refKey identifies a map or slice by its backing storage.
// Slices that share a data pointer but differ in length are distinct values.
type refKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// identityKey returns the comparable key that stands for v's reference identity.
// Pointers are their own key, which also keeps the pointee alive for the pass.
func identityKey(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return refKey{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		return refKey{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}, true
	default:
		return v, false
	}
}

// WriteIdentities assigns sequential ids to the references written in one isolate.
type WriteIdentities struct {
	ids map[any]int
	// retained keeps maps and slices reachable while their address is used as a key.
	retained []any
}

// NewWriteIdentities creates an empty table.
func NewWriteIdentities() *WriteIdentities {
	return &WriteIdentities{ids: make(map[any]int)}
}

// GetID returns the id assigned to v.
func (w *WriteIdentities) GetID(v any) (int, bool) {
	key, _ := identityKey(v)
	id, ok := w.ids[key]
	return id, ok
}

// PutInstance assigns the next id to v and returns it.
func (w *WriteIdentities) PutInstance(v any) int {
	key, retain := identityKey(v)
	id := len(w.ids)
	w.ids[key] = id
	if retain {
		w.retained = append(w.retained, v)
	}
	return id
}

// Len returns the number of assigned ids.
func (w *WriteIdentities) Len() int {
	return len(w.ids)
}

// ReadIdentities maps ids back to decoded instances.
// Ids may be registered out of order; unregistered slots are holes.
type ReadIdentities struct {
	slots []any
	set   []bool
	next  int
}

// NewReadIdentities creates an empty table.
func NewReadIdentities() *ReadIdentities {
	return &ReadIdentities{}
}

// GetInstance returns the instance registered under id.
func (r *ReadIdentities) GetInstance(id int) (any, bool) {
	if id < 0 || id >= len(r.slots) || !r.set[id] {
		return nil, false
	}
	return r.slots[id], true
}

// Reserve claims id for a first occurrence. Writers hand out ids in sequence, so the
// only valid id is the one after the last reserved.
func (r *ReadIdentities) Reserve(id int) bool {
	if id != r.next {
		return false
	}
	r.next++
	return true
}

// PutInstance registers v under id. Negative ids are ignored.
func (r *ReadIdentities) PutInstance(id int, v any) {
	if id < 0 {
		return
	}
	if id >= len(r.slots) {
		grow := id + 1 - len(r.slots)
		r.slots = append(r.slots, make([]any, grow)...)
		r.set = append(r.set, make([]bool, grow)...)
	}
	r.slots[id] = v
	r.set[id] = true
}
