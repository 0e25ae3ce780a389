// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/courtdesk/internal/platform/middleware"
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
	router.With(middleware.RequirePermission(sec.PermViewAuditLog)).Get("/", handler.listEntries)
}

func (handler *Handler) listEntries(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		ActorID:    query.Get("actor_id"),
		EntityType: query.Get("entity_type"),
		Action:     Action(query.Get("action")),
	}

	entries, total, err := handler.service.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if entries == nil {
		entries = []*Entry{}
	}
	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
