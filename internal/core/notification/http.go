// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/courtdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/courtdesk/internal/platform/request"
	"github.com/taibuivan/courtdesk/internal/platform/respond"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/pkg/convert"
	"github.com/taibuivan/courtdesk/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Reading includes marking as read
	router.Group(func(readRoute chi.Router) {
		readRoute.Use(middleware.RequirePermission(sec.PermViewNotification))

		readRoute.Get("/", handler.listNotifications)
		readRoute.Get("/unread-count", handler.unreadCount)
		readRoute.Get("/{id}", handler.getNotification)
		readRoute.Patch("/{id}/read", handler.markRead)
		readRoute.Post("/read-all", handler.markAllRead)
	})

	router.Group(func(manageRoute chi.Router) {
		manageRoute.Use(middleware.RequirePermission(sec.PermManageNotification))

		manageRoute.Post("/", handler.createNotification)
		manageRoute.Put("/{id}", handler.updateNotification)
		manageRoute.Delete("/{id}", handler.deleteNotification)
	})
}

func (handler *Handler) listNotifications(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	values := request.URL.Query()

	filter := Filter{
		UnreadOnly: convert.ToBool(values.Get("unread")),
		Kind:       NotificationKind(values.Get("kind")),
	}

	notifications, total, err := handler.service.ListNotifications(request.Context(), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, notifications, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) unreadCount(writer http.ResponseWriter, request *http.Request) {
	count, err := handler.service.UnreadCount(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{"unread": count})
}

func (handler *Handler) getNotification(writer http.ResponseWriter, request *http.Request) {
	notification, err := handler.service.GetNotification(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, notification)
}

func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	notification, err := handler.service.MarkRead(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, notification)
}

func (handler *Handler) markAllRead(writer http.ResponseWriter, request *http.Request) {
	updated, err := handler.service.MarkAllRead(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{"updated": updated})
}

func (handler *Handler) createNotification(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	notification, err := handler.service.CreateNotification(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, notification)
}

func (handler *Handler) updateNotification(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	notification, err := handler.service.UpdateNotification(request.Context(), requestutil.ID(request, "id"), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, notification)
}

func (handler *Handler) deleteNotification(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteNotification(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
