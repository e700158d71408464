package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "footlens/internal/errors"
	"footlens/internal/exporter"
	"footlens/internal/middleware"
	"footlens/internal/services"
	"footlens/pkg/contracts/domain"
)

// DataHandler serves the injury table and its analytics
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validator    *middleware.QueryValidator
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
		validator:    middleware.NewQueryValidator(),
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/injuries", h.GetInjuries)
		r.Get("/summary", h.GetSummary)
		r.Get("/aggregate", h.GetAggregate)
		r.Get("/counts/{column}", h.GetCounts)
		r.Get("/monthly", h.GetMonthly)
		r.Get("/top", h.GetTop)
		r.Get("/correlation", h.GetCorrelation)
		r.Get("/describe", h.GetDescribe)
		r.Get("/columns", h.GetColumns)
		r.Get("/players", h.GetPlayers)
		r.Get("/players/{name}", h.GetPlayer)
		r.Get("/snapshot", h.GetSnapshot)
		r.Post("/reload", h.Reload)
	})

	r.Get("/export/{format}", h.Export)

	return r
}

// handleError maps service sentinels onto API errors before rendering
func (h *DataHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNoSnapshot):
		err = apierrors.ErrNoSnapshot
	case errors.Is(err, services.ErrPlayerNotFound):
		err = apierrors.NewNotFoundError("player")
	}
	h.errorHandler.HandleError(w, r, err)
}

// validate runs the query validator and renders the failure
func (h *DataHandler) validate(w http.ResponseWriter, r *http.Request, q interface{}) bool {
	if err := h.validator.Validate(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}

// GetInjuries handles GET /api/injuries
func (h *DataHandler) GetInjuries(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Injuries(filterFromQuery(r.URL.Query()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.InjuryRecord{}
	}
	render.JSON(w, r, map[string]interface{}{
		"count":    len(rows),
		"injuries": rows,
	})
}

// GetSummary handles GET /api/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(filterFromQuery(r.URL.Query()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetAggregate handles GET /api/aggregate?by=injury&column=team_performance_drop&agg=mean&top=10
func (h *DataHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	top, err := intParam(values, "top", 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	q := aggregateQuery{
		By:      values.Get("by"),
		Columns: listParam(values, "column"),
		Agg:     values.Get("agg"),
		Top:     top,
		Sort:    values.Get("sort"),
	}
	if !h.validate(w, r, q) {
		return
	}

	result, err := h.service.Aggregate(filterFromQuery(values), q.By, q.aggSpecs(), q.options())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetCounts handles GET /api/counts/{column}
func (h *DataHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	q := countsQuery{Column: chi.URLParam(r, "column")}
	if !h.validate(w, r, q) {
		return
	}

	counts, err := h.service.Counts(filterFromQuery(r.URL.Query()), q.Column)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"column": q.Column,
		"counts": counts,
	})
}

// GetMonthly handles GET /api/monthly
func (h *DataHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.MonthlyCounts(filterFromQuery(r.URL.Query()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"counts": counts})
}

// GetTop handles GET /api/top?column=performance_drop_index&n=10
func (h *DataHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	n, err := intParam(values, "n", defaultTopN)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	q := topQuery{Column: values.Get("column"), N: n}
	if !h.validate(w, r, q) {
		return
	}

	rows, err := h.service.Top(filterFromQuery(values), q.Column, q.N)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.InjuryRecord{}
	}
	render.JSON(w, r, map[string]interface{}{
		"column":   q.Column,
		"injuries": rows,
	})
}

// GetCorrelation handles GET /api/correlation
func (h *DataHandler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	q := columnsQuery{Columns: listParam(r.URL.Query(), "column")}
	if !h.validate(w, r, q) {
		return
	}

	matrix, err := h.service.Correlation(filterFromQuery(r.URL.Query()), q.Columns)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, matrix)
}

// GetDescribe handles GET /api/describe
func (h *DataHandler) GetDescribe(w http.ResponseWriter, r *http.Request) {
	q := columnsQuery{Columns: listParam(r.URL.Query(), "column")}
	if !h.validate(w, r, q) {
		return
	}

	stats, err := h.service.Describe(filterFromQuery(r.URL.Query()), q.Columns)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"stats": stats})
}

// ColumnInfo describes one column of the enriched table
type ColumnInfo struct {
	Name string            `json:"name"`
	Kind domain.ColumnKind `json:"kind"`
}

// GetColumns handles GET /api/columns. It does not need a loaded snapshot.
func (h *DataHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
	cols := domain.Columns()
	out := make([]ColumnInfo, len(cols))
	for i, c := range cols {
		out[i] = ColumnInfo{Name: c.Name, Kind: c.Kind}
	}
	render.JSON(w, r, map[string]interface{}{"columns": out})
}

// GetPlayers handles GET /api/players
func (h *DataHandler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.Players(filterFromQuery(r.URL.Query()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if players == nil {
		players = []string{}
	}
	render.JSON(w, r, map[string]interface{}{
		"count":   len(players),
		"players": players,
	})
}

// GetPlayer handles GET /api/players/{name}
func (h *DataHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	rows, err := h.service.PlayerInjuries(name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"name":     name,
		"injuries": rows,
	})
}

// GetSnapshot handles GET /api/snapshot
func (h *DataHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot()
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, snap)
}

// Reload handles POST /api/reload. A failed reload keeps serving the
// previous snapshot and answers 422 with the load error.
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap, err := h.service.Load(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "reload failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
		h.handleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "reload completed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("snapshot_id", snap.ID),
		slog.Int("rows", snap.Rows),
		slog.Duration("duration", time.Since(start)))
	render.JSON(w, r, snap)
}

// Export handles GET /api/export/{format}. The file is built in memory so a
// failure can still be answered with a problem document.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := exportQuery{
		Format:  chi.URLParam(r, "format"),
		Columns: listParam(r.URL.Query(), "column"),
	}
	if !h.validate(w, r, q) {
		return
	}
	format, err := exporter.ParseFormat(q.Format)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, filterFromQuery(r.URL.Query()), format, q.Columns); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="player_injuries_enriched%s"`, format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export response interrupted",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	}
}
