// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/courtdesk/internal/upstream"
)

type widget struct {
	ID   upstream.ID `json:"id"`
	Name string      `json:"name"`
}

/*
TestID_Unmarshal accepts string, numeric and null identifiers.
*/
func TestID_Unmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want upstream.ID
	}{
		{`"c-1"`, "c-1"},
		{`42`, "42"},
		{`9007199254740993`, "9007199254740993"},
		{`null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var id upstream.ID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id upstream.ID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

/*
TestResource_CRUD exercises every verb against a fake collection.
*/
func TestResource_CRUD(t *testing.T) {
	client := newClient(t, func(writer http.ResponseWriter, request *http.Request) {
		switch request.Method + " " + request.URL.EscapedPath() {
		case "GET /widgets":
			_, _ = io.WriteString(writer, `{"data":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}`)
		case "GET /widgets/a%2Fb":
			_, _ = io.WriteString(writer, `{"data":{"id":"a/b","name":"slashed"}}`)
		case "POST /widgets", "PUT /widgets/7":
			var body widget
			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			body.ID = "7"
			writer.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(writer).Encode(map[string]any{"data": body})
		case "DELETE /widgets/7":
			writer.WriteHeader(http.StatusNoContent)
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	widgets := upstream.NewResource[widget](client, "/widgets")

	items, total, err := widgets.List(ctx, upstream.PageQuery(1, 20))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, upstream.ID("1"), items[0].ID)

	item, err := widgets.Get(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "slashed", item.Name)

	created, err := widgets.Create(ctx, widget{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, upstream.ID("7"), created.ID)

	updated, err := widgets.Update(ctx, "7", widget{Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	require.NoError(t, widgets.Delete(ctx, "7"))

	_, err = widgets.Get(ctx, "missing")
	assert.Error(t, err)
}
