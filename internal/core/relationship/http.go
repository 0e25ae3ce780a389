// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/courtdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/courtdesk/internal/platform/request"
	"github.com/taibuivan/courtdesk/internal/platform/respond"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/pkg/convert"
	"github.com/taibuivan/courtdesk/pkg/pagination"
	"github.com/taibuivan/courtdesk/pkg/slice"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(readRoute chi.Router) {
		readRoute.Use(middleware.RequirePermission(sec.PermViewLegalRelationship))

		readRoute.Get("/", handler.listRelationships)
		readRoute.Get("/kinds", handler.listKinds)
		readRoute.Get("/{id}", handler.getRelationship)
	})

	router.Group(func(manageRoute chi.Router) {
		manageRoute.Use(middleware.RequirePermission(sec.PermManageCaseData))

		manageRoute.Post("/", handler.createRelationship)
		manageRoute.Put("/{id}", handler.updateRelationship)
		manageRoute.Delete("/{id}", handler.deleteRelationship)
	})
}

func (handler *Handler) listRelationships(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	values := request.URL.Query()

	filter := Filter{
		Query:      values.Get("q"),
		Kind:       RelationshipKind(values.Get("kind")),
		ActiveOnly: convert.ToBool(values.Get("active")),
	}

	relationships, total, err := handler.service.ListRelationships(request.Context(), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, relationships, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// kindOption is one entry of the kind picker.
type kindOption struct {
	Value RelationshipKind `json:"value"`
	Label string           `json:"label"`
}

func (handler *Handler) listKinds(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, slice.Map(AllKinds(), func(kind RelationshipKind) kindOption {
		return kindOption{Value: kind, Label: kind.Label()}
	}))
}

func (handler *Handler) getRelationship(writer http.ResponseWriter, request *http.Request) {
	relationship, err := handler.service.GetRelationship(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, relationship)
}

func (handler *Handler) createRelationship(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	relationship, err := handler.service.CreateRelationship(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, relationship)
}

func (handler *Handler) updateRelationship(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	relationship, err := handler.service.UpdateRelationship(request.Context(), requestutil.ID(request, "id"), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, relationship)
}

func (handler *Handler) deleteRelationship(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteRelationship(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
