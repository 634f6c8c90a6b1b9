// Package graphql serves the forum over GraphQL. Requests are validated
// against the embedded schema with gqlparser and executed by graphql-go
// over resolvers that call the same services the REST handlers use.
package graphql

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/auth"
	"github.com/hacklingo-backend/internal/metrics"
	"github.com/hacklingo-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

//go:embed schema.graphql
var schemaSDL string

// Schema returns the parsed forum schema
func Schema() *ast.Schema {
	return gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})
}

// Handler executes GraphQL requests
type Handler struct {
	schema         *ast.Schema
	exec           *graphqlgo.Schema
	identityHeader string
	metrics        *metrics.Metrics
	log            zerolog.Logger
}

// NewHandler creates a handler over the services. m may be nil. It panics
// when a schema field has no matching resolver method.
func NewHandler(services *service.Services, identityHeader string, m *metrics.Metrics, log zerolog.Logger) *Handler {
	h := &Handler{
		schema:         Schema(),
		identityHeader: identityHeader,
		metrics:        m,
		log:            log.With().Str("handler", "graphql").Logger(),
	}
	h.exec = graphqlgo.MustParseSchema(schemaSDL, &rootResolver{h: h, services: services},
		graphqlgo.DisableIntrospection())
	return h
}

// Serve handles POST /graphql
func (h *Handler) Serve(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &Response{Errors: gqlerror.List{requestError("Request body must be a JSON object with a query")}})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, &Response{Errors: gqlerror.List{requestError("Must provide query string")}})
		return
	}

	caller := auth.NewIdentity(c.GetHeader(h.identityHeader))
	resp := h.Execute(c.Request.Context(), caller, req)

	status := http.StatusOK
	if len(resp.Data) == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, resp)
}

func (h *Handler) observeError(err error, field string) {
	kind := apperr.KindOf(err)
	if h.metrics != nil {
		h.metrics.ObserveError("graphql", kind.String())
	}
	if kind == apperr.KindInternal {
		h.log.Error().Err(err).Str("field", field).Msg("Resolver failed")
	}
}
