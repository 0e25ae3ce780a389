// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/core/relationship"
	"github.com/taibuivan/courtdesk/internal/platform/apperr"
	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/pkg/pagination"
	"github.com/taibuivan/courtdesk/pkg/pointer"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// captureRepository echoes writes back and remembers the last input.
type captureRepository struct {
	last *relationship.Input
}

func (repo *captureRepository) List(context.Context, relationship.Filter, pagination.Params) ([]*relationship.LegalRelationship, int, error) {
	return []*relationship.LegalRelationship{
		{ID: "1", Kind: relationship.KindMarriageFamily},
		{ID: "2", Kind: "TAX"},
	}, 2, nil
}

func (repo *captureRepository) Get(_ context.Context, id string) (*relationship.LegalRelationship, error) {
	return nil, apperr.NotFound("Legal relationship")
}

func (repo *captureRepository) Create(_ context.Context, input *relationship.Input) (*relationship.LegalRelationship, error) {
	repo.last = input
	return &relationship.LegalRelationship{ID: "r-1", Code: input.Code, Name: input.Name, Kind: input.Kind, Active: pointer.Val(input.Active)}, nil
}

func (repo *captureRepository) Update(_ context.Context, id string, input *relationship.Input) (*relationship.LegalRelationship, error) {
	repo.last = input
	return &relationship.LegalRelationship{ID: upstream.ID(id), Code: input.Code, Kind: input.Kind}, nil
}

func (repo *captureRepository) Delete(context.Context, string) error { return nil }

/*
TestCreateRelationship_DerivesCode fills the code from the name and defaults Active.
*/
func TestCreateRelationship_DerivesCode(t *testing.T) {
	repo := &captureRepository{}
	service := relationship.NewService(repo, audit.NopRecorder{}, discard)

	created, err := service.CreateRelationship(context.Background(), &relationship.Input{
		Name: " Tranh chấp quyền sử dụng đất ",
		Kind: relationship.KindCivil,
	})
	require.NoError(t, err)
	assert.Equal(t, "tranh-chap-quyen-su-dung-dat", created.Code)
	assert.Equal(t, "Civil", created.KindLabel)
	assert.True(t, created.Active)

	_, err = service.UpdateRelationship(context.Background(), "r-1", &relationship.Input{
		Code:   "ly-hon",
		Name:   "Divorce",
		Kind:   relationship.KindMarriageFamily,
		Active: pointer.To(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "ly-hon", repo.last.Code, "an explicit code is kept")
	assert.False(t, *repo.last.Active)
}

/*
TestCreateRelationship_Validation rejects bad codes, names and kinds.
*/
func TestCreateRelationship_Validation(t *testing.T) {
	tests := []struct {
		name   string
		input  relationship.Input
		fields []string
	}{
		{"missing_everything", relationship.Input{}, []string{relationship.FieldName, relationship.FieldCode, relationship.FieldKind}},
		{"bad_code", relationship.Input{Name: "Labor", Code: "Labor Dispute", Kind: relationship.KindLabor}, []string{relationship.FieldCode}},
		{"unknown_kind", relationship.Input{Name: "Tax", Kind: "TAX"}, []string{relationship.FieldKind}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &captureRepository{}
			service := relationship.NewService(repo, audit.NopRecorder{}, discard)

			_, err := service.CreateRelationship(context.Background(), &tt.input)
			appError := apperr.As(err)
			require.NotNil(t, appError)

			var fields []string
			for _, detail := range appError.Details {
				fields = append(fields, detail.Field)
			}
			assert.ElementsMatch(t, tt.fields, fields)
			assert.Nil(t, repo.last)
		})
	}
}

/*
TestListRelationships labels unknown kinds.
*/
func TestListRelationships(t *testing.T) {
	service := relationship.NewService(&captureRepository{}, audit.NopRecorder{}, discard)

	items, total, err := service.ListRelationships(context.Background(), relationship.Filter{}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Marriage and family", items[0].KindLabel)
	assert.Equal(t, "Unknown", items[1].KindLabel)

	_, err = service.GetRelationship(context.Background(), "9")
	assert.True(t, apperr.HasStatus(err, 404))
}

/*
TestKinds keeps the picker list and labels in step.
*/
func TestKinds(t *testing.T) {
	for _, kind := range relationship.AllKinds() {
		assert.True(t, kind.Valid(), kind)
		assert.NotEqual(t, "Unknown", kind.Label())
	}
	assert.False(t, relationship.KindUnknown.Valid())
}
