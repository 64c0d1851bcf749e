package reflector

import "github.com/google/btree"

// initialVersion is the resume version of a mirror that has never synced.
const initialVersion = "0"

// btreeDegree matches the btree package's recommended default.
const btreeDegree = 32

// entry is one cache slot: an identity and the latest observed value.
type entry[K Object] struct {
	id  ObjectID
	obj K
}

func entryLess[K Object](a, b entry[K]) bool {
	return a.id.Less(b.id)
}

// state is the versioned cache behind a Reflector: an ordered map from
// ObjectID to the latest known value, plus the watch resume version. It is
// not safe for concurrent use on its own; the Reflector's mutex guards
// (data, version) as one unit.
type state[K Object] struct {
	data    *btree.BTreeG[entry[K]]
	version string
}

func newState[K Object]() *state[K] {
	return &state[K]{
		data:    btree.NewG(btreeDegree, entryLess[K]),
		version: initialVersion,
	}
}

// insertIfAbsent stores obj under id only when the key is not already
// present. Replayed duplicate adds must not overwrite the first value seen.
func (s *state[K]) insertIfAbsent(id ObjectID, obj K) bool {
	if _, ok := s.data.Get(entry[K]{id: id}); ok {
		return false
	}
	s.data.ReplaceOrInsert(entry[K]{id: id, obj: obj})
	return true
}

// updateIfPresent overwrites the value under id only when the key already
// exists. A modification for an unknown key must not resurrect it.
func (s *state[K]) updateIfPresent(id ObjectID, obj K) bool {
	if _, ok := s.data.Get(entry[K]{id: id}); !ok {
		return false
	}
	s.data.ReplaceOrInsert(entry[K]{id: id, obj: obj})
	return true
}

// remove deletes id from the cache, reporting whether it was present.
func (s *state[K]) remove(id ObjectID) bool {
	_, ok := s.data.Delete(entry[K]{id: id})
	return ok
}

// replace stores obj under id unconditionally. Used when rebuilding from a
// snapshot, where the last occurrence of a key wins.
func (s *state[K]) replace(id ObjectID, obj K) {
	s.data.ReplaceOrInsert(entry[K]{id: id, obj: obj})
}

func (s *state[K]) get(id ObjectID) (K, bool) {
	e, ok := s.data.Get(entry[K]{id: id})
	return e.obj, ok
}

// values returns all cached values in identity order.
func (s *state[K]) values() []K {
	out := make([]K, 0, s.data.Len())
	s.data.Ascend(func(e entry[K]) bool {
		out = append(out, e.obj)
		return true
	})
	return out
}

// ids returns all cached identities in order. Used for logging after a
// rebuild.
func (s *state[K]) ids() []ObjectID {
	out := make([]ObjectID, 0, s.data.Len())
	s.data.Ascend(func(e entry[K]) bool {
		out = append(out, e.id)
		return true
	})
	return out
}

func (s *state[K]) len() int {
	return s.data.Len()
}
