package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"verbline/internal/domain"
	"verbline/internal/engine"
	"verbline/internal/repo"
)

// Config for the HTTP API handler. A nil Logger falls back to the
// process default logger.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Logger   *log.Logger
}

// apiError models the required error envelope.
type apiError struct {
	status  int
	Code    string         `json:"code" example:"VALIDATION_ERROR"`
	Message string         `json:"message" example:"title must not be empty"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Message }

// New returns an HTTP handler exposing the Verbline API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the required envelope.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			// Schema/request validation errors surface as 400.
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	hcfg := huma.DefaultConfig("Verbline API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	registerDocs(router, basePath)
	registerHealth(group)
	registerVerbs(group, cfg.Engine, logger)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// handleError maps domain and repository errors to the API envelope.
// Anything unrecognized is internal: it is logged in full and crosses
// the boundary as an opaque 500.
func handleError(logger *log.Logger, err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return newAPIError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	}
	var se *domain.UnsupportedStateError
	if errors.As(err, &se) {
		return newAPIError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), map[string]any{"state": se.Value})
	}
	var te *domain.InvalidTransitionError
	if errors.As(err, &te) {
		return newAPIError(http.StatusConflict, "CONFLICT", err.Error(), map[string]any{
			"from": te.From.String(),
			"to":   te.To.String(),
		})
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	}
	logger.Printf("internal error: %v", err)
	return newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal error", nil)
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusInternalServerError:
		return "INTERNAL_ERROR"
	default:
		return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func parseVerbID(raw string) (uuid.UUID, huma.StatusError) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, newAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "id must be a UUID", nil)
	}
	return id, nil
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			oas := api.OpenAPI()
			ensureDefaultErrorResponses(oas)
			spec, _ = json.Marshal(oas)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func ensureDefaultErrorResponses(oas *huma.OpenAPI) {
	if oas == nil || oas.Paths == nil {
		return
	}
	for _, item := range oas.Paths {
		for _, op := range []*huma.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Options, item.Head, item.Patch, item.Trace,
		} {
			if op == nil {
				continue
			}
			if op.Responses == nil {
				op.Responses = map[string]*huma.Response{}
			}
			op.Responses["default"] = &huma.Response{
				Description: "Error",
				Content: map[string]*huma.MediaType{
					"application/json": {
						Schema: &huma.Schema{Ref: "#/components/schemas/ApiError"},
					},
				},
			}
		}
	}
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Verbline API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerVerbs(api huma.API, e engine.Engine, logger *log.Logger) {
	type VerbPath struct {
		ID string `path:"id"`
	}

	huma.Register(api, huma.Operation{
		OperationID:   "create-verb",
		Method:        http.MethodPost,
		Path:          "/verbs",
		Summary:       "Create verb",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateVerbRequest `json:"body"`
	}) (*struct {
		Body VerbResponse `json:"body"`
	}, error) {
		v, err := e.CreateVerb(ctx, input.Body.Title, input.Body.Description)
		if err != nil {
			return nil, handleError(logger, err)
		}
		return &struct {
			Body VerbResponse `json:"body"`
		}{Body: verbResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-verbs",
		Method:      http.MethodGet,
		Path:        "/verbs",
		Summary:     "List verbs",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		State  string `query:"state" required:"false"`
		Limit  int    `query:"limit" required:"false" minimum:"0"`
		Offset int    `query:"offset" required:"false" minimum:"0"`
	}) (*struct {
		Body VerbListResponse `json:"body"`
	}, error) {
		filter := repo.VerbFilter{Limit: input.Limit, Offset: input.Offset}
		if input.State != "" {
			state, err := domain.ParseVerbState(input.State)
			if err != nil {
				return nil, handleError(logger, err)
			}
			filter.State = &state
		}
		verbs, total, err := e.ListVerbs(ctx, filter)
		if err != nil {
			return nil, handleError(logger, err)
		}
		limit := filter.Limit
		if limit <= 0 {
			limit = engine.DefaultListLimit
		} else if limit > engine.MaxListLimit {
			limit = engine.MaxListLimit
		}
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		return &struct {
			Body VerbListResponse `json:"body"`
		}{Body: VerbListResponse{
			Verbs:  mapVerbs(verbs),
			Total:  total,
			Limit:  limit,
			Offset: offset,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-verb",
		Method:      http.MethodGet,
		Path:        "/verbs/{id}",
		Summary:     "Get verb",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *VerbPath) (*struct {
		Body VerbResponse `json:"body"`
	}, error) {
		id, serr := parseVerbID(input.ID)
		if serr != nil {
			return nil, serr
		}
		v, err := e.GetVerb(ctx, id)
		if err != nil {
			return nil, handleError(logger, err)
		}
		return &struct {
			Body VerbResponse `json:"body"`
		}{Body: verbResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-verb-state",
		Method:      http.MethodPut,
		Path:        "/verbs/{id}/state",
		Summary:     "Transition verb state",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		VerbPath
		Body SetStateRequest `json:"body"`
	}) (*struct {
		Body VerbResponse `json:"body"`
	}, error) {
		id, serr := parseVerbID(input.ID)
		if serr != nil {
			return nil, serr
		}
		state, err := domain.ParseVerbState(input.Body.State)
		if err != nil {
			return nil, handleError(logger, err)
		}
		v, err := e.TransitionVerb(ctx, id, state, input.Body.Reason)
		if err != nil {
			return nil, handleError(logger, err)
		}
		return &struct {
			Body VerbResponse `json:"body"`
		}{Body: verbResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "drop-verb",
		Method:      http.MethodDelete,
		Path:        "/verbs/{id}",
		Summary:     "Drop verb",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		VerbPath
		Body DropVerbRequest `json:"body" required:"false"`
	}) (*struct {
		Body VerbResponse `json:"body"`
	}, error) {
		id, serr := parseVerbID(input.ID)
		if serr != nil {
			return nil, serr
		}
		v, err := e.DropVerb(ctx, id, input.Body.Reason)
		if err != nil {
			return nil, handleError(logger, err)
		}
		return &struct {
			Body VerbResponse `json:"body"`
		}{Body: verbResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "verb-logs",
		Method:      http.MethodGet,
		Path:        "/verbs/{id}/logs",
		Summary:     "Action log for a verb",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *VerbPath) (*struct {
		Body []ActionLogResponse `json:"body"`
	}, error) {
		id, serr := parseVerbID(input.ID)
		if serr != nil {
			return nil, serr
		}
		logs, err := e.LogsByVerb(ctx, id)
		if err != nil {
			return nil, handleError(logger, err)
		}
		return &struct {
			Body []ActionLogResponse `json:"body"`
		}{Body: mapLogs(logs)}, nil
	})
}
