// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package batch

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/courtdesk/internal/platform/constants"
	"github.com/taibuivan/courtdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/courtdesk/internal/platform/request"
	"github.com/taibuivan/courtdesk/internal/platform/respond"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/platform/validate"
	"github.com/taibuivan/courtdesk/pkg/pagination"
)

const (
	workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	templateFilename    = "batch-import-template.xlsx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(readRoute chi.Router) {
		readRoute.Use(middleware.RequirePermission(sec.PermViewBatch))

		readRoute.Get("/", handler.listBatches)
		readRoute.Get("/{id}", handler.getBatch)
	})

	router.Group(func(importRoute chi.Router) {
		importRoute.Use(middleware.RequirePermission(sec.PermImportBatch))

		importRoute.Get("/import-template", handler.downloadTemplate)
		importRoute.Post("/", handler.createBatch)
		importRoute.Put("/{id}", handler.updateBatch)
		importRoute.Post("/{id}/import", handler.importWorkbook)
	})

	router.With(middleware.RequirePermission(sec.PermDeleteBatch)).Delete("/{id}", handler.deleteBatch)
}

func (handler *Handler) listBatches(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query:  request.URL.Query().Get("q"),
		Status: BatchStatus(request.URL.Query().Get("status")),
	}

	batches, total, err := handler.service.ListBatches(request.Context(), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, batches, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getBatch(writer http.ResponseWriter, request *http.Request) {
	batch, err := handler.service.GetBatch(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, batch)
}

func (handler *Handler) createBatch(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	batch, err := handler.service.CreateBatch(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, batch)
}

func (handler *Handler) updateBatch(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	batch, err := handler.service.UpdateBatch(request.Context(), requestutil.ID(request, "id"), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, batch)
}

func (handler *Handler) deleteBatch(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteBatch(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
importWorkbook accepts a multipart upload with the workbook in the "file" part.
*/
func (handler *Handler) importWorkbook(writer http.ResponseWriter, request *http.Request) {
	// 1. Bound and parse the upload
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxWorkbookSize)
	if err := request.ParseMultipartForm(constants.MaxWorkbookSize); err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldFile, "Upload one .xlsx workbook of at most 10 MB"))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldFile, "Missing workbook"))
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		respond.Error(writer, request, validate.RequiredError(FieldFile, "Only .xlsx workbooks are supported"))
		return
	}

	// 2. Import
	report, err := handler.service.ImportWorkbook(request.Context(), requestutil.ID(request, "id"), file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

func (handler *Handler) downloadTemplate(writer http.ResponseWriter, request *http.Request) {
	var buffer bytes.Buffer
	if err := WriteTemplate(&buffer); err != nil {
		respond.Error(writer, request, err)
		return
	}

	header := writer.Header()
	header.Set(constants.HeaderContentType, workbookContentType)
	header.Set("Content-Disposition", `attachment; filename="`+templateFilename+`"`)
	header.Set("Content-Length", strconv.Itoa(buffer.Len()))
	writer.WriteHeader(http.StatusOK)
	_, _ = buffer.WriteTo(writer)
}
