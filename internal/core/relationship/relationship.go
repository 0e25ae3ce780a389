// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package relationship maintains the legal-relationship taxonomy cases are
// classified under (e.g. "land-use dispute", "divorce").
package relationship

import "github.com/taibuivan/courtdesk/internal/upstream"

// RelationshipKind is the branch of law a relationship belongs to.
type RelationshipKind string

const (
	// KindUnknown covers an empty or unrecognised kind from the API.
	KindUnknown RelationshipKind = ""

	KindCivil          RelationshipKind = "CIVIL"
	KindCriminal       RelationshipKind = "CRIMINAL"
	KindAdministrative RelationshipKind = "ADMINISTRATIVE"
	KindMarriageFamily RelationshipKind = "MARRIAGE_FAMILY"
	KindBusinessTrade  RelationshipKind = "BUSINESS_TRADE"
	KindLabor          RelationshipKind = "LABOR"
)

// AllKinds lists the kinds in display order.
func AllKinds() []RelationshipKind {
	return []RelationshipKind{
		KindCivil,
		KindCriminal,
		KindAdministrative,
		KindMarriageFamily,
		KindBusinessTrade,
		KindLabor,
	}
}

// Label returns the display name of kind.
func (kind RelationshipKind) Label() string {
	switch kind {
	case KindCivil:
		return "Civil"
	case KindCriminal:
		return "Criminal"
	case KindAdministrative:
		return "Administrative"
	case KindMarriageFamily:
		return "Marriage and family"
	case KindBusinessTrade:
		return "Business and trade"
	case KindLabor:
		return "Labor"
	default:
		return "Unknown"
	}
}

// Valid reports whether kind is a known, non-empty value.
func (kind RelationshipKind) Valid() bool {
	return kind != KindUnknown && kind.Label() != KindUnknown.Label()
}

// LegalRelationship is one taxonomy entry.
type LegalRelationship struct {
	ID          upstream.ID      `json:"id"`
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Kind        RelationshipKind `json:"kind"`
	KindLabel   string           `json:"kind_label"`
	Description string           `json:"description,omitempty"`
	Active      bool             `json:"active"`
}

// Input is the writable part of a relationship. An empty Code is derived
// from Name; a nil Active means true.
type Input struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Kind        RelationshipKind `json:"kind"`
	Description string           `json:"description,omitempty"`
	Active      *bool            `json:"active"`
}

// Filter narrows a relationship listing.
type Filter struct {
	Query      string
	Kind       RelationshipKind
	ActiveOnly bool
}

const (
	FieldCode        = "code"
	FieldName        = "name"
	FieldKind        = "kind"
	FieldDescription = "description"
)
