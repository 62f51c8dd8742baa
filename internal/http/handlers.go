package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/mwantia/lensdb/pkg/query"
)

type addQueryRequest struct {
	Query string `json:"query"`
	Name  string `json:"name"  binding:"required"`
	Value string `json:"value"`
}

func (s *Server) listPredicates(c *gin.Context) {
	defs := s.catalog.Definitions()
	out := make([]PredicateResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, newPredicateResponse(def))
	}

	c.JSON(http.StatusOK, SuccessResponse(c, "Predicates retrieved", out))
}

func (s *Server) listLenses(c *gin.Context) {
	set, err := query.ParseValues(s.catalog, c.Request.URL.Query())
	if err != nil {
		s.rejectInput(c, "", err)
		return
	}

	snap := s.holder.Load()
	matched := query.ApplyObserved(snap.Records, set, s.recordQuery)

	c.JSON(http.StatusOK, SuccessResponse(c, "Lenses retrieved", LensesResponse{
		QuerySetResponse: newQuerySetResponse(set, s.cfg.PublicURL),
		Lenses:           matched,
		Total:            len(snap.Records),
		Matched:          len(matched),
	}))
}

func (s *Server) getLens(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse(c, "Lens id must be an integer"))
		return
	}

	rec, ok := s.holder.Load().Find(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse(c, "Lens not found"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(c, "Lens retrieved", rec))
}

func (s *Server) addQuery(c *gin.Context) {
	var req addQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse(c, "Invalid request body: "+err.Error()))
		return
	}

	set, err := query.ParseQuery(s.catalog, req.Query)
	if err != nil {
		s.rejectInput(c, "", err)
		return
	}

	q, err := s.catalog.Build(req.Name, req.Value)
	if err != nil {
		s.rejectInput(c, req.Name, err)
		return
	}

	set = set.With(q)
	c.JSON(http.StatusOK, SuccessResponse(c, "Query added", newQuerySetResponse(set, s.cfg.PublicURL)))
}

func (s *Server) removeQuery(c *gin.Context) {
	set, err := query.ParseValues(s.catalog, c.Request.URL.Query())
	if err != nil {
		s.rejectInput(c, "", err)
		return
	}

	set = set.Without(c.Param("name"))
	c.JSON(http.StatusOK, SuccessResponse(c, "Query removed", newQuerySetResponse(set, s.cfg.PublicURL)))
}

// lensData serves the loaded collection in the static data file format.
func (s *Server) lensData(c *gin.Context) {
	snap := s.holder.Load()

	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("Last-Modified", snap.LoadedAt.UTC().Format(http.TimeFormat))
	c.Status(http.StatusOK)
	if err := lens.Encode(c.Writer, snap.Records); err != nil {
		s.logger.Error("Failed to write lens data: %v", err)
	}
}

func (s *Server) health(c *gin.Context) {
	snap := s.holder.Load()
	resp := HealthResponse{
		Records: len(snap.Records),
		Source:  snap.Source,
	}
	if !snap.LoadedAt.IsZero() {
		resp.LoadedAt = snap.LoadedAt.UTC().Format(time.RFC3339)
	}

	if s.store != nil {
		if err := s.store.Health(c.Request.Context()); err != nil {
			resp.Store = err.Error()
			c.JSON(http.StatusServiceUnavailable, ApiResponse{Message: "Store unavailable", Data: resp, Error: true})
			return
		}
		resp.Store = "ok"
	}

	c.JSON(http.StatusOK, SuccessResponse(c, "Healthy", resp))
}

func (s *Server) recordQuery(q query.Query) {
	if s.metrics != nil {
		s.metrics.RecordQuery(q.Name())
	}
}

func (s *Server) rejectInput(c *gin.Context, predicate string, err error) {
	status := statusFor(err)
	if s.metrics != nil && errors.Is(err, query.ErrInvalidInput) {
		if predicate == "" {
			predicate = "query"
		}
		s.metrics.RecordInvalidInput(predicate)
	}

	s.logger.Debug("Rejected query input: %v", err)
	c.JSON(status, ErrorResponse(c, err.Error()))
}
