// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package legalcase

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/courtdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/courtdesk/internal/platform/request"
	"github.com/taibuivan/courtdesk/internal/platform/respond"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/pkg/pagination"
	"github.com/taibuivan/courtdesk/pkg/query"
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
		readRoute.Use(middleware.RequirePermission(sec.PermViewLegalCase))

		readRoute.Get("/", handler.listCases)
		readRoute.Get("/statuses", handler.listStatuses)
		readRoute.Get("/{id}", handler.getCase)
	})

	router.With(middleware.RequirePermission(sec.PermCreateLegalCase)).Post("/", handler.createCase)
	router.With(middleware.RequirePermission(sec.PermEditLegalCase)).Put("/{id}", handler.updateCase)
	router.With(middleware.RequirePermission(sec.PermDeleteLegalCase)).Delete("/{id}", handler.deleteCase)
}

func (handler *Handler) listCases(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	values := request.URL.Query()

	filter := Filter{
		Query:    values.Get("q"),
		Statuses: parseStatuses(query.Strings(values, "status")),
		BatchID:  values.Get("batch_id"),
	}

	cases, total, err := handler.service.ListCases(request.Context(), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, cases, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// parseStatuses keeps the recognised values of the status filter.
func parseStatuses(raw []string) []CaseStatus {
	statuses := slice.Map(raw, func(value string) CaseStatus { return CaseStatus(strings.ToUpper(value)) })
	return slice.Filter(statuses, CaseStatus.Valid)
}

// statusOption is one entry of the status picker.
type statusOption struct {
	Value CaseStatus `json:"value"`
	Label string     `json:"label"`
}

func (handler *Handler) listStatuses(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, slice.Map(AllStatuses(), func(status CaseStatus) statusOption {
		return statusOption{Value: status, Label: status.Label()}
	}))
}

func (handler *Handler) getCase(writer http.ResponseWriter, request *http.Request) {
	legalCase, err := handler.service.GetCase(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, legalCase)
}

func (handler *Handler) createCase(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	legalCase, err := handler.service.CreateCase(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, legalCase)
}

func (handler *Handler) updateCase(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	legalCase, err := handler.service.UpdateCase(request.Context(), requestutil.ID(request, "id"), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, legalCase)
}

func (handler *Handler) deleteCase(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteCase(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
