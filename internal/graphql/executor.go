package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hacklingo-backend/internal/auth"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// Request is a GraphQL request body
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Response is a GraphQL response body. Data is absent when the request
// failed before execution and keeps fields in selection order otherwise.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors gqlerror.List   `json:"errors,omitempty"`
}

// Execute validates a request and runs it as caller
func (h *Handler) Execute(ctx context.Context, caller auth.Identity, req Request) *Response {
	if errs := h.check(req); len(errs) > 0 {
		return &Response{Errors: errs}
	}

	res := h.exec.Exec(withCaller(ctx, caller), req.Query, req.OperationName, req.Variables)

	resp := &Response{Data: res.Data}
	for _, qerr := range res.Errors {
		resp.Errors = append(resp.Errors, fromQueryError(qerr, len(res.Data) > 0))
	}
	return resp
}

// check rejects documents that do not validate against the schema and
// variables that do not coerce to their declared types
func (h *Handler) check(req Request) gqlerror.List {
	doc, errs := gqlparser.LoadQuery(h.schema, req.Query)
	if len(errs) > 0 {
		return withCode(errs)
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		if req.OperationName == "" {
			return gqlerror.List{requestError("Must provide operation name if query contains multiple operations")}
		}
		return gqlerror.List{requestError(fmt.Sprintf("Unknown operation named %q", req.OperationName))}
	}

	if _, err := validator.VariableValues(h.schema, op, req.Variables); err != nil {
		var gerr *gqlerror.Error
		if errors.As(err, &gerr) {
			return withCode(gqlerror.List{gerr})
		}
		return gqlerror.List{requestError(err.Error())}
	}
	return nil
}
