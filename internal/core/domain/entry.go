package domain

import "time"

// EntryInfo describes a stored cache entry.
type EntryInfo struct {
	Key       string    `cbor:"1,keyasint,omitempty"`
	Producer  string    `cbor:"2,keyasint,omitempty"`
	Roots     int       `cbor:"3,keyasint,omitempty"`
	Size      int64     `cbor:"4,keyasint,omitempty"`
	Codec     string    `cbor:"5,keyasint,omitempty"`
	Timestamp time.Time `cbor:"6,keyasint,omitzero"`
}
