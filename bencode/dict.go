package bencode

// Entry is one key/value pair of a Dict.
type Entry struct {
	Key   string
	Value Value
}

// Dict is a dictionary that remembers insertion order.
//
// A decoded Dict keeps every entry it read, including repeated keys, so
// that it can be written back unchanged. Lookups see the last value
// stored under a key.
type Dict struct {
	entries []Entry
	index   map[string]int
}

func NewDict() *Dict {
	return &Dict{index: make(map[string]int)}
}

// Set stores v under key. An existing key keeps its position.
func (d *Dict) Set(key string, v Value) *Dict {
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = v
		return d
	}
	d.add(key, v)
	return d
}

func (d *Dict) add(key string, v Value) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Value: v})
}

func (d *Dict) Get(key string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	i, ok := d.index[key]
	if !ok {
		return Value{}, false
	}
	return d.entries[i].Value, true
}

func (d *Dict) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Len returns the number of stored entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Keys returns the keys in stored order.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, d.Len())
	for _, e := range d.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

func (d *Dict) Entries() []Entry {
	if d == nil {
		return nil
	}
	return d.entries[:len(d.entries):len(d.entries)]
}
