package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"travel-time-service/internal/api/dto"
	"travel-time-service/internal/departure"
	"travel-time-service/internal/domain"
	"travel-time-service/internal/ports"
	"travel-time-service/internal/services"
	"travel-time-service/internal/table"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchHandler runs route batches submitted as JSON tables.
type BatchHandler struct {
	Processor *services.BatchProcessor
	// Store is optional; without it GET /batches/:id answers 404.
	Store    ports.BatchStore
	Defaults services.BatchOptions
	Logger   *zap.Logger
}

// Create processes the submitted table synchronously and returns it with
// the result columns appended.
func (h *BatchHandler) Create(c *gin.Context) {
	var req dto.BatchRequest

	dec := json.NewDecoder(c.Request.Body)
	defer c.Request.Body.Close()
	dec.DisallowUnknownFields()
	dec.UseNumber()

	if err := dec.Decode(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(c, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}
	if len(req.Columns) == 0 {
		writeError(c, http.StatusBadRequest, "columns are required")
		return
	}

	opts, err := h.options(req.Options)
	if err != nil {
		h.fail(c, err)
		return
	}

	rows := make([]table.Row, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, table.Row(r))
	}
	tbl := table.New(req.Columns, rows)

	var cols services.ColumnMap
	if req.ColumnMap != nil {
		cols = services.ColumnMap{
			OriginLat: req.ColumnMap.OriginLat,
			OriginLon: req.ColumnMap.OriginLon,
			DestLat:   req.ColumnMap.DestLat,
			DestLon:   req.ColumnMap.DestLon,
		}
	}

	batch, err := h.Processor.Process(c.Request.Context(), tbl, cols, opts)
	if err != nil {
		h.fail(c, err)
		return
	}

	res := dto.BatchResponse{
		BatchID:       batch.ID.String(),
		Columns:       tbl.Columns,
		Rows:          make([][]any, 0, len(tbl.Rows)),
		DepartureTime: batch.DepartureTime,
		Summary:       batch.Summary,
		StartedAt:     batch.StartedAt,
		FinishedAt:    batch.FinishedAt,
	}
	for _, r := range tbl.Rows {
		res.Rows = append(res.Rows, r)
	}

	c.JSON(http.StatusOK, res)
}

// Get returns a stored batch run.
func (h *BatchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid batch id")
		return
	}
	if h.Store == nil {
		writeError(c, http.StatusNotFound, "batch not found")
		return
	}

	b, err := h.Store.GetBatch(c.Request.Context(), id)
	if errors.Is(err, domain.ErrBatchNotFound) {
		writeError(c, http.StatusNotFound, "batch not found")
		return
	}
	if err != nil {
		h.Logger.Error("get batch failed", zap.String("batch_id", id.String()), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.StoredBatchResponse{
		BatchID:       b.ID.String(),
		Mode:          string(b.Mode),
		TrafficModel:  string(b.TrafficModel),
		DepartureTime: b.DepartureTime,
		Summary:       b.Summary,
		Results:       make([]dto.RouteResultResponse, 0, len(b.Results)),
		StartedAt:     b.StartedAt,
		FinishedAt:    b.FinishedAt,
	}
	for _, r := range b.Results {
		res.Results = append(res.Results, dto.RouteResultResponse{
			DrivingTimeMin: r.DurationMinutes,
			DistanceKm:     r.DistanceKm,
			APIStatus:      r.Status,
		})
	}

	c.JSON(http.StatusOK, res)
}

// options overlays the request on the handler defaults.
func (h *BatchHandler) options(req dto.BatchOptionsRequest) (services.BatchOptions, error) {
	opts := h.Defaults

	if m := strings.TrimSpace(req.Mode); m != "" {
		opts.Mode = domain.TravelMode(m)
	}
	if tm := strings.TrimSpace(req.TrafficModel); tm != "" {
		opts.TrafficModel = domain.TrafficModel(tm)
	}
	if req.DelaySeconds != nil {
		opts.Delay = time.Duration(*req.DelaySeconds * float64(time.Second))
	}
	opts.APIKey = req.APIKey

	dep := req.DepartureTime
	if dep != nil && !opts.Mode.AcceptsDeparture() {
		// Dropped before parsing so every input shape is treated alike.
		h.Logger.Warn("departure time ignored for mode", zap.String("mode", string(opts.Mode)))
		opts.Departure = departure.Unset{}
		return opts, nil
	}
	// JSON has no time type; accept RFC 3339 strings as absolute instants.
	if s, ok := dep.(string); ok {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
			dep = t
		}
	}
	spec, err := departure.ParseValue(dep)
	if err != nil {
		return opts, err
	}
	opts.Departure = spec

	return opts, nil
}

func (h *BatchHandler) fail(c *gin.Context, err error) {
	var (
		verr *domain.ValidationError
		perr *domain.ParseError
		cerr *domain.ConfigurationError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &perr):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &cerr):
		h.Logger.Error("batch rejected: configuration", zap.Error(err))
		writeError(c, http.StatusInternalServerError, err.Error())
	default:
		h.Logger.Error("process batch failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}
