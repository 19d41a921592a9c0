// Package vocab holds the learner's word/definition pairs.
package vocab

// Entry is a learned word paired with the tutor's explanation of it.
// Word is the identity key and is compared case-sensitively.
type Entry struct {
	Word       string `json:"word" validate:"required"`
	Definition string `json:"definition"`
}

// Store is an insertion-ordered set of entries keyed by word.
//
// The learned vocabulary only ever grows through Upsert. The mistake set
// reuses the same type through Add and Remove.
//
// Store is not safe for concurrent use; the session controller serializes
// access.
type Store struct {
	entries []Entry
	index   map[string]int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Upsert appends a new entry for an unseen word, or replaces the definition
// of an existing one without moving it.
func (s *Store) Upsert(word, definition string) {
	if i, ok := s.index[word]; ok {
		s.entries[i].Definition = definition
		return
	}
	s.index[word] = len(s.entries)
	s.entries = append(s.entries, Entry{Word: word, Definition: definition})
}

// Add inserts e if its word is not present yet. It reports whether the
// entry was inserted; an existing entry is left untouched.
func (s *Store) Add(e Entry) bool {
	if _, ok := s.index[e.Word]; ok {
		return false
	}
	s.index[e.Word] = len(s.entries)
	s.entries = append(s.entries, e)
	return true
}

// Remove deletes the entry for word, keeping the order of the rest.
// It reports whether anything was removed.
func (s *Store) Remove(word string) bool {
	i, ok := s.index[word]
	if !ok {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.index, word)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].Word] = j
	}
	return true
}

// Get returns the entry for word.
func (s *Store) Get(word string) (Entry, bool) {
	i, ok := s.index[word]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Has reports whether word is present.
func (s *Store) Has(word string) bool {
	_, ok := s.index[word]
	return ok
}

// All returns a copy of the entries in insertion order.
func (s *Store) All() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Size returns the number of distinct words.
func (s *Store) Size() int {
	return len(s.entries)
}

// Reset removes every entry.
func (s *Store) Reset() {
	s.entries = nil
	clear(s.index)
}
