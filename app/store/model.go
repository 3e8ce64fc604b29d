package store

import "crypto/sha256"

// Series is one archived input source.
type Series struct {
	ID   []byte `gorm:"primaryKey"`
	Name string `gorm:"unique"`
	Unit string
}

// Sample is one archived record. Timestamp is in Unix milliseconds.
type Sample struct {
	ID        []byte `gorm:"primaryKey"`
	Timestamp int64  `gorm:"index;not null"`
	Value     float64
	SeriesID  []byte `gorm:"index;not null"`
}

// HashedID derives the stable series key from its name.
func HashedID(name string) []byte {
	sum := sha256.Sum256([]byte(name))
	return sum[:16]
}
