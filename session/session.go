// Package session holds the state of a single virtual user while it walks
// through a scenario. A Session is an immutable attribute carrier: every
// mutation returns a new value and leaves the original untouched, so any
// pipeline stage still holding an older session keeps seeing a consistent
// snapshot.
package session

// Session is a copy-on-write attribute map. The zero value is an empty,
// usable session. Exactly one virtual user owns a session value at a time,
// so no locking is needed anywhere in the pipeline.
type Session struct {
	attrs map[string]any
}

// New returns an empty session.
func New() Session {
	return Session{}
}

// Get returns the attribute stored under name, and whether it was present.
func (s Session) Get(name string) (any, bool) {
	v, ok := s.attrs[name]
	return v, ok
}

// Set returns a new session with the attribute set. The receiver is not
// modified.
func (s Session) Set(name string, value any) Session {
	attrs := make(map[string]any, len(s.attrs)+1)
	for k, v := range s.attrs {
		attrs[k] = v
	}
	attrs[name] = value
	return Session{attrs: attrs}
}

// Remove returns a new session without the named attribute. Removing an
// absent attribute returns the receiver unchanged.
func (s Session) Remove(name string) Session {
	if _, ok := s.attrs[name]; !ok {
		return s
	}
	attrs := make(map[string]any, len(s.attrs))
	for k, v := range s.attrs {
		if k != name {
			attrs[k] = v
		}
	}
	return Session{attrs: attrs}
}
