package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
	"github.com/davejbarnes/pyngctl/pkg/serializer"
	"github.com/davejbarnes/pyngctl/pkg/server"
	"github.com/davejbarnes/pyngctl/pkg/validator"
)

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	// Args are the command-line arguments, e.g. ["-h=web01", "-c=patching", "-D=2"].
	Args []string `json:"args"`
}

// ValidateResponse is the reply of POST /v1/validate.
type ValidateResponse struct {
	Result  string             `json:"result" yaml:"result"`
	Proceed bool               `json:"proceed" yaml:"proceed"`
	Args    []string           `json:"args" yaml:"args"`
	Outcome *validator.Outcome `json:"outcome" yaml:"outcome"`
}

// Handler serves validation requests.
type Handler struct {
	engine *validator.Engine
}

// NewHandler creates a Handler.
func NewHandler(engine *validator.Engine) *Handler {
	return &Handler{engine: engine}
}

// HandleValidate handles POST /v1/validate. Rejected arguments are a
// successful request: the outcome carries the diagnostics.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, perrors.ErrCodeMethodNotAllowed,
			"method not allowed", false, nil)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			server.WriteError(w, r, http.StatusRequestEntityTooLarge, perrors.ErrCodeInvalidRequest,
				"request body too large", false, map[string]any{"limit": tooLarge.Limit})
			return
		}
		server.WriteErrorFromErr(w, r, perrors.Wrap(perrors.ErrCodeInvalidRequest, "invalid request body", err), "", nil)
		return
	}

	out := h.engine.Validate(r.Context(), req.Args)
	slog.DebugContext(r.Context(), "validated request",
		"request_id", server.RequestID(r.Context()),
		"result", out.Result(),
		"issues", len(out.Issues))

	serializer.RespondJSON(w, http.StatusOK, ValidateResponse{
		Result:  out.Result(),
		Proceed: out.Proceed(),
		Args:    out.Args(),
		Outcome: out,
	})
}

// HandleSchema handles GET /v1/schema.
func (h *Handler) HandleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, perrors.ErrCodeMethodNotAllowed,
			"method not allowed", false, nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, h.engine.Schema().Document())
}
