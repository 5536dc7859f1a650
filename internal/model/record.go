package model

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is a string-keyed mapping that remembers insertion order.
//
// Values may be scalars, time.Time, nested *Record values, []any slices or
// nil. The insertion order is the order keys are written out when the
// record is exported, which keeps structured exports stable.
//
// Example:
//
//	sessions := NewRecord().
//	    Set("Session1", NewRecord().Set("name", "Practice 1"))
//	info := NewRecord().
//	    Set("name", "Monte Carlo").
//	    Set("sessions", sessions)
//	fmt.Println(info.Keys()) // [name sessions]
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// Set stores value under key and returns the record for chaining.
// Overwriting an existing key keeps its original position.
func (r *Record) Set(key string, value any) *Record {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = value
		return r
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: value})
	return r
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the key/value pairs in insertion order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of keys. A nil Record is empty.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}
