package model

import "time"

// Metadata is the audit trail every stored row carries.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}

// NewMetadata stamps a row created by user at now.
func NewMetadata(user string, now time.Time) Metadata {
	return Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  user,
		ModifiedBy: user,
	}
}

// Touch records a modification by user at now.
func (m *Metadata) Touch(user string, now time.Time) {
	m.ModifiedAt = now
	m.ModifiedBy = user
}

// Modified reports whether the row changed after it was created.
func (m Metadata) Modified() bool {
	return m.ModifiedAt.After(m.CreatedAt)
}
