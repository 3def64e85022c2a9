package http

import (
	"net/http"

	"reflekt/internal/anonymizer"
	"reflekt/internal/auth"
	"reflekt/internal/collective"
	"reflekt/internal/config"
	"reflekt/internal/http/handler"
	mw "reflekt/internal/http/middleware"
	"reflekt/internal/insight"
	"reflekt/internal/reflection"
	"reflekt/internal/state"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the explicitly constructed components the router wires together.
type Deps struct {
	DB          *gorm.DB
	JWT         *auth.JWT
	Anonymizer  *anonymizer.Anonymizer
	States      *state.Store
	Reflections *reflection.Store
	Engine      *insight.Engine
	Sharer      collective.Sharer
	Log         *zap.Logger
}

func NewRouter(cfg config.Config, d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: d.DB, JWT: d.JWT}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	refH := &handler.ReflectionHandler{
		Anonymizer:  d.Anonymizer,
		States:      d.States,
		Reflections: d.Reflections,
		Engine:      d.Engine,
		Sharer:      d.Sharer,
		Log:         d.Log,
	}
	stateH := &handler.StateHandler{Store: d.States}
	insightH := &handler.InsightHandler{Engine: d.Engine}
	anonH := &handler.AnonymizeHandler{Anonymizer: d.Anonymizer}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/reflections", refH.Create)
		r.Get("/reflections", refH.List)

		r.Post("/states", stateH.Append)
		r.Get("/states/export", stateH.Export)
		r.Get("/states/day/{date}", stateH.ForDate)
		r.Get("/states/{key}/history", stateH.History)

		r.Get("/insights", insightH.List)
		r.Get("/insights/summary", insightH.Summary)

		r.Post("/anonymize/validate", anonH.Validate)
	})

	return r
}
