package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CWeait/nemlig-mcp/api/responses"
	"github.com/CWeait/nemlig-mcp/internal/tools"
	pkgerrors "github.com/CWeait/nemlig-mcp/pkg/errors"
	"github.com/CWeait/nemlig-mcp/pkg/logger"
)

// maxToolBodyBytes bounds the argument object; tool arguments are tiny and
// anything near this size is abuse.
const maxToolBodyBytes = 1 << 20

// Dispatcher is the tool surface the controllers call. *tools.Registry
// satisfies it.
type Dispatcher interface {
	List() []tools.Definition
	Dispatch(ctx context.Context, name string, raw json.RawMessage) tools.Result
}

func ListTools(registry Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"tools": registry.List()})
	}
}

// CallTool dispatches one tool call. The HTTP exchange answers 200 for both
// tool success and tool failure; only an unreadable request body earns an
// HTTP-level error.
func CallTool(registry Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxToolBodyBytes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body unreadable"))
			return
		}

		result := registry.Dispatch(r.Context(), name, json.RawMessage(body))
		responses.WriteToolResult(w, result)
	}
}
