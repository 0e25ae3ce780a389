// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package decisiontype maintains the outcomes a case can be decided with
// (judgment, dismissal, suspension, ...).
package decisiontype

import "github.com/taibuivan/courtdesk/internal/upstream"

// DecisionType is one decision outcome.
type DecisionType struct {
	ID          upstream.ID `json:"id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`

	// Terminal decisions close the case.
	Terminal  bool `json:"terminal"`
	SortOrder int  `json:"sort_order"`
}

// Input is the writable part of a decision type. An empty Code is derived
// from Name.
type Input struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Terminal    bool   `json:"terminal"`
	SortOrder   int    `json:"sort_order"`
}

const (
	FieldCode        = "code"
	FieldName        = "name"
	FieldDescription = "description"
	FieldSortOrder   = "sort_order"
)
