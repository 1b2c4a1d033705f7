package input

// KeyEvent is a raw key transition delivered by the host.
type KeyEvent struct {
	Key  string
	Down bool
}

// Mapper translates key events into ControlInput values.
// It keeps the set of keys currently held; it never blocks.
type Mapper struct {
	byKey map[string][]Action
	down  map[string]bool
}

// NewMapper creates a mapper for the given bindings.
func NewMapper(b Bindings) *Mapper {
	m := &Mapper{down: make(map[string]bool)}
	m.SetBindings(b)
	return m
}

// SetBindings replaces the key layout. Held keys are released.
func (m *Mapper) SetBindings(b Bindings) {
	if len(b) == 0 {
		b = DefaultBindings()
	}
	m.byKey = make(map[string][]Action)
	for a, keys := range b {
		for _, k := range keys {
			k = NormalizeKey(k)
			m.byKey[k] = append(m.byKey[k], a)
		}
	}
	m.Release()
}

// Release forgets every held key, as if all of them went up.
func (m *Mapper) Release() {
	for k := range m.down {
		delete(m.down, k)
	}
}

// Update applies the events received since the previous tick and returns
// the control set for this tick.
//
// Held actions are active while any bound key is down. A key pressed and
// released within the same batch still counts for this tick so short taps
// are not lost. Edge actions fire once per key-down transition; a repeated
// key-down without a key-up in between does not fire again.
func (m *Mapper) Update(events []KeyEvent) ControlInput {
	var in ControlInput

	for _, ev := range events {
		key := NormalizeKey(ev.Key)
		actions, known := m.byKey[key]
		if !known {
			continue
		}

		if !ev.Down {
			delete(m.down, key)
			continue
		}
		if m.Held(key) {
			continue
		}
		m.down[key] = true
		for _, a := range actions {
			in.Set(a)
		}
	}

	for key := range m.down {
		for _, a := range m.byKey[key] {
			if a.Held() {
				in.Set(a)
			}
		}
	}
	return in
}

// Held reports whether a key is currently considered down.
func (m *Mapper) Held(key string) bool {
	return m.down[NormalizeKey(key)]
}
