// Package company defines the counterparty entity and its persistence
// interface, with Postgres and SQLite implementations.
package company

import (
	"time"
)

// Status is the lifecycle state of a company record.
type Status string

// Company lifecycle states.
const (
	// StatusPending marks auto-created records awaiting operator review.
	StatusPending Status = "pending"
	// StatusActive marks operator-confirmed records.
	StatusActive Status = "active"
	// StatusMerged marks superseded records. Terminal: once merged, a
	// record never returns to the candidate pool.
	StatusMerged Status = "merged"
)

// Source records how a company entered the system. Set once at creation.
type Source string

// Company provenance tags.
const (
	SourceAutoCreated Source = "auto_created"
	SourceManual      Source = "manual"
	SourceImport      Source = "import"
)

// Company is a counterparty entity resolved from document-extracted names.
type Company struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// NameVariants are alternate strings under which this company has been
	// seen. Original casing and punctuation are preserved; normalization
	// happens only at comparison time.
	NameVariants []string `json:"name_variants" db:"name_variants"`

	Status Status `json:"status" db:"status"`

	// MergedIntoID points at the surviving company when Status is merged.
	// It always references a non-merged root, never another merged record.
	MergedIntoID string `json:"merged_into_id,omitempty" db:"merged_into_id"`

	Source       Source `json:"source" db:"source"`
	Code         string `json:"code,omitempty" db:"code"`
	ContactEmail string `json:"contact_email,omitempty" db:"contact_email"`

	// FirstSeenDocumentID references the document that triggered
	// auto-creation. Relation only, not ownership.
	FirstSeenDocumentID string `json:"first_seen_document_id,omitempty" db:"first_seen_document_id"`
	CreatedByID         string `json:"created_by_id,omitempty" db:"created_by_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Merged reports whether the record has been superseded by another company.
func (c *Company) Merged() bool {
	return c.Status == StatusMerged
}

// HasVariant reports whether v is already recorded as a literal variant.
func (c *Company) HasVariant(v string) bool {
	for _, existing := range c.NameVariants {
		if existing == v {
			return true
		}
	}
	return false
}
