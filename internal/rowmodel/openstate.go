package rowmodel

import "sort"

// OpenState records which item keys are expanded. Updates return a new
// value and never modify the receiver.
type OpenState struct {
	open map[string]struct{}
}

func NewOpenState(keys ...string) OpenState {
	var s OpenState
	for _, key := range keys {
		s = s.Insert(key)
	}
	return s
}

func (s OpenState) clone() map[string]struct{} {
	out := make(map[string]struct{}, len(s.open)+1)
	for key := range s.open {
		out[key] = struct{}{}
	}
	return out
}

func (s OpenState) IsOpen(key string) bool {
	_, ok := s.open[key]
	return ok
}

func (s OpenState) Len() int {
	return len(s.open)
}

func (s OpenState) Insert(key string) OpenState {
	next := s.clone()
	next[key] = struct{}{}
	return OpenState{open: next}
}

func (s OpenState) Toggle(key string) OpenState {
	next := s.clone()
	if _, ok := next[key]; ok {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}
	return OpenState{open: next}
}

// EvictMissing closes every key that is not in keys.
func (s OpenState) EvictMissing(keys []string) OpenState {
	present := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		present[key] = struct{}{}
	}
	next := make(map[string]struct{}, len(s.open))
	for key := range s.open {
		if _, ok := present[key]; ok {
			next[key] = struct{}{}
		}
	}
	return OpenState{open: next}
}

// Reconcile keeps open keys that still exist and, when that leaves nothing
// open, opens the first key.
func (s OpenState) Reconcile(keys []string) OpenState {
	next := s.EvictMissing(keys)
	if next.Len() == 0 && len(keys) > 0 {
		return next.Insert(keys[0])
	}
	return next
}

// OpenKeys lists the open keys in sorted order.
func (s OpenState) OpenKeys() []string {
	out := make([]string, 0, len(s.open))
	for key := range s.open {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
