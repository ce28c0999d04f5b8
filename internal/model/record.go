package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// IDField is the key every record is addressed by.
const IDField = "id"

// DefaultCollections are the collections seeded into an empty store.
var DefaultCollections = []string{
	"users",
	"customerProfiles",
	"addresses",
	"zones",
	"categories",
	"services",
	"bookings",
	"payments",
	"receipts",
	"ratings",
	"coupons",
	"discountRules",
	"expertProfiles",
	"expertOnboarding",
	"expertJobs",
	"expertEarnings",
	"expertPayouts",
}

// Record is a schemaless JSON document. Numbers are kept as json.Number so
// they round-trip unchanged.
type Record map[string]any

// Snapshot is the whole document store: collection name -> ordered records.
type Snapshot map[string][]Record

// ID returns the string form of the record's id, or "" when it has none.
func (r Record) ID() string {
	v, ok := r[IDField]
	if !ok || v == nil {
		return ""
	}
	return ValueString(v)
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Without returns a copy of the record with the given fields removed.
func (r Record) Without(fields ...string) Record {
	out := r.Clone()
	for _, f := range fields {
		delete(out, f)
	}
	return out
}

// Clone copies the snapshot and every record in it.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for name, records := range s {
		copied := make([]Record, len(records))
		for i, rec := range records {
			copied[i] = rec.Clone()
		}
		out[name] = copied
	}
	return out
}

// EnsureCollections adds an empty slice for every missing name.
func (s Snapshot) EnsureCollections(names ...string) {
	for _, name := range names {
		if _, ok := s[name]; !ok {
			s[name] = []Record{}
		}
	}
}

// ValueString renders a scalar JSON value the way it would appear in a URL.
func ValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case nil:
		return "null"
	default:
		return fmt.Sprint(val)
	}
}

// DecodeRecord parses a JSON object into a Record.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := decodeJSON(data, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return rec, nil
}

// DecodeSnapshot parses a whole document store.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := decodeJSON(data, &snap); err != nil {
		return nil, err
	}
	if snap == nil {
		snap = Snapshot{}
	}
	return snap, nil
}

// DecodeRecords parses a JSON array of records.
func DecodeRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := decodeJSON(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("failed to decode JSON: trailing data")
	}
	return nil
}
