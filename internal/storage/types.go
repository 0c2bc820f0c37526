package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Style is the persisted subset of a note card's style. Exactly these six
// properties survive a write; anything else the surface reported is dropped.
type Style struct {
	BackgroundColor string `json:"backgroundColor" bson:"backgroundColor"`
	Color           string `json:"color" bson:"color"`
	Left            string `json:"left" bson:"left"`
	Top             string `json:"top" bson:"top"`
	Width           string `json:"width" bson:"width"`
	Height          string `json:"height" bson:"height"`
}

// Record is one persisted note.
type Record struct {
	Style Style  `json:"style"`
	Value string `json:"value"`
}

// Snapshot maps note index to record. Member order from the JSON source is
// kept on decode and reproduced on encode.
type Snapshot struct {
	m *orderedmap.OrderedMap[string, Record]
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{m: orderedmap.New[string, Record]()}
}

func (s *Snapshot) init() {
	if s.m == nil {
		s.m = orderedmap.New[string, Record]()
	}
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil || s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Get returns the record stored for index.
func (s *Snapshot) Get(index int) (Record, bool) {
	if s == nil || s.m == nil {
		return Record{}, false
	}
	return s.m.Get(strconv.Itoa(index))
}

// Put stores rec under index. An existing key keeps its position.
func (s *Snapshot) Put(index int, rec Record) {
	s.init()
	s.m.Set(strconv.Itoa(index), rec)
}

// Delete removes index, reporting whether it was present.
func (s *Snapshot) Delete(index int) bool {
	if s == nil || s.m == nil {
		return false
	}
	_, ok := s.m.Delete(strconv.Itoa(index))
	return ok
}

// Keys returns the keys in order.
func (s *Snapshot) Keys() []string {
	var keys []string
	s.Each(func(key string, _ Record) {
		keys = append(keys, key)
	})
	return keys
}

// Each calls fn for every record in order.
func (s *Snapshot) Each(fn func(key string, rec Record)) {
	if s == nil || s.m == nil {
		return
	}
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns an independent copy.
func (s *Snapshot) Clone() *Snapshot {
	out := NewSnapshot()
	s.Each(func(key string, rec Record) {
		out.m.Set(key, rec)
	})
	return out
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	if s == nil || s.m == nil || s.m.Len() == 0 {
		return []byte("{}"), nil
	}
	return s.m.MarshalJSON()
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, Record]()
	if err := m.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	s.m = m
	return nil
}

// ParseSnapshot decodes raw stored JSON.
func ParseSnapshot(raw string) (*Snapshot, error) {
	// orderedmap accepts non-object input quietly; reject it here.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if probe == nil {
		return NewSnapshot(), nil
	}
	s := NewSnapshot()
	if err := s.UnmarshalJSON([]byte(raw)); err != nil {
		return nil, err
	}
	return s, nil
}
