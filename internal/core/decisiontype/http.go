// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package decisiontype

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/courtdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/courtdesk/internal/platform/request"
	"github.com/taibuivan/courtdesk/internal/platform/respond"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(readRoute chi.Router) {
		readRoute.Use(middleware.RequirePermission(sec.PermViewDecisionType))

		readRoute.Get("/", handler.listDecisionTypes)
		readRoute.Get("/{id}", handler.getDecisionType)
	})

	router.Group(func(manageRoute chi.Router) {
		manageRoute.Use(middleware.RequirePermission(sec.PermManageCaseData))

		manageRoute.Post("/", handler.createDecisionType)
		manageRoute.Put("/{id}", handler.updateDecisionType)
		manageRoute.Delete("/{id}", handler.deleteDecisionType)
	})
}

func (handler *Handler) listDecisionTypes(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	decisionTypes, total, err := handler.service.ListDecisionTypes(request.Context(), request.URL.Query().Get("q"), paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, decisionTypes, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getDecisionType(writer http.ResponseWriter, request *http.Request) {
	decisionType, err := handler.service.GetDecisionType(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, decisionType)
}

func (handler *Handler) createDecisionType(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	decisionType, err := handler.service.CreateDecisionType(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, decisionType)
}

func (handler *Handler) updateDecisionType(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	decisionType, err := handler.service.UpdateDecisionType(request.Context(), requestutil.ID(request, "id"), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, decisionType)
}

func (handler *Handler) deleteDecisionType(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteDecisionType(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
