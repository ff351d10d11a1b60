package rest

import (
	"log/slog"
	"net/http"

	"github.com/linkword/linkword-backend/internal/config"
	"github.com/linkword/linkword-backend/internal/transport/middleware"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Log     *slog.Logger
	Cfg     config.CORSConfig
	DB      dbPinger
	Version string

	Words   wordsService
	Catalog catalogService
	Lists   listService
}

// NewRouter builds the full route table wrapped in the common
// middleware chain. Health probes stay outside the chain so they are
// never blocked by CORS.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	health := NewHealthHandler(deps.DB, deps.Version)
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	api := http.NewServeMux()

	enrich := NewEnrichHandler(deps.Words, deps.Log)
	api.HandleFunc("POST /api/v1/enrich", enrich.Enrich)
	api.HandleFunc("GET /api/v1/words", enrich.LookupWord)
	api.HandleFunc("GET /api/v1/words/{id}", enrich.GetWord)

	catalog := NewCatalogHandler(deps.Catalog, deps.Log)
	api.HandleFunc("POST /api/v1/categories", catalog.CreateCategory)
	api.HandleFunc("GET /api/v1/categories", catalog.ListCategories)
	api.HandleFunc("GET /api/v1/categories/{id}", catalog.GetCategory)
	api.HandleFunc("PUT /api/v1/categories/{id}", catalog.UpdateCategory)
	api.HandleFunc("DELETE /api/v1/categories/{id}", catalog.DeleteCategory)

	api.HandleFunc("PUT /api/v1/pair-configs", catalog.SetPairConfig)
	api.HandleFunc("GET /api/v1/pair-configs", catalog.ListPairConfigs)
	api.HandleFunc("GET /api/v1/pair-configs/{pair}/{key}", catalog.GetPairConfig)
	api.HandleFunc("DELETE /api/v1/pair-configs/{id}", catalog.DeletePairConfig)

	lists := NewListHandler(deps.Lists, deps.Log)
	api.HandleFunc("POST /api/v1/generated-lists/generate", lists.Generate)
	api.HandleFunc("GET /api/v1/generated-lists", lists.List)
	api.HandleFunc("GET /api/v1/generated-lists/{id}", lists.Get)
	api.HandleFunc("PATCH /api/v1/generated-lists/{id}/review", lists.Review)
	api.HandleFunc("DELETE /api/v1/generated-lists/{id}", lists.Delete)

	chained := middleware.Chain(
		middleware.Recovery(deps.Log),
		middleware.RequestID,
		middleware.Logger(deps.Log),
		middleware.CORS(deps.Cfg),
	)(api)

	// One registration covers every method; CORS answers preflight
	// before the inner mux does method matching.
	mux.Handle("/api/v1/", chained)

	return mux
}
