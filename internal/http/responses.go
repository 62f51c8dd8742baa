package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/mwantia/lensdb/pkg/query"
)

type ApiResponse struct {
	Message         string `json:"message"`
	Data            any    `json:"data,omitempty"`
	Error           bool   `json:"error,omitempty"`
	RequestedEntity string `json:"requested_entity,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data any) ApiResponse {
	return ApiResponse{
		Message:         message,
		Data:            data,
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}

func ErrorResponse(c *gin.Context, message string) ApiResponse {
	return ApiResponse{
		Message:         message,
		Error:           true,
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}

// statusFor maps query errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, query.ErrUnknownPredicate):
		return http.StatusNotFound
	case errors.Is(err, query.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type PredicateResponse struct {
	Name       string           `json:"name"`
	Prefix     string           `json:"prefix"`
	Suffix     string           `json:"suffix"`
	Kind       query.Kind       `json:"kind"`
	Unit       query.Unit       `json:"unit"`
	Field      string           `json:"field,omitempty"`
	Comparator query.Comparator `json:"comparator"`
}

type ActiveQueryResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Label string `json:"label"`
}

type QuerySetResponse struct {
	Queries  []ActiveQueryResponse `json:"queries"`
	Query    string                `json:"query"`
	ShareURL string                `json:"share_url"`
}

type LensesResponse struct {
	QuerySetResponse
	Lenses  []lens.Record `json:"lenses"`
	Total   int           `json:"total"`
	Matched int           `json:"matched"`
}

type HealthResponse struct {
	Records  int    `json:"records"`
	Source   string `json:"source"`
	LoadedAt string `json:"loaded_at,omitempty"`
	Store    string `json:"store,omitempty"`
}

func newPredicateResponse(def *query.Definition) PredicateResponse {
	return PredicateResponse{
		Name:       def.Name,
		Prefix:     def.Prefix,
		Suffix:     def.Suffix,
		Kind:       def.Kind,
		Unit:       def.Unit,
		Field:      def.Field,
		Comparator: def.Comparator,
	}
}

func newQuerySetResponse(set query.Set, publicURL string) QuerySetResponse {
	queries := make([]ActiveQueryResponse, 0, set.Len())
	for _, q := range set.Queries() {
		queries = append(queries, ActiveQueryResponse{
			Name:  q.Name(),
			Value: query.FormatValue(q),
			Label: query.Label(q),
		})
	}

	return QuerySetResponse{
		Queries:  queries,
		Query:    query.EncodeQuery(set),
		ShareURL: query.ShareURL(publicURL, set),
	}
}
