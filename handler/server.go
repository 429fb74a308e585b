package handler

import (
	"net/http"

	"dsc/core"
	"dsc/handler/auth"
	"dsc/handler/rest"
	"dsc/service/deploy"

	"github.com/go-chi/chi"
)

// Server server
type Server struct {
	cfg          *core.Config
	engine       core.IEngine
	market       *deploy.Deployment
	transactions core.TransactionStore
	session      core.Session
}

// New new server function
func New(
	cfg *core.Config,
	engine core.IEngine,
	market *deploy.Deployment,
	transactions core.TransactionStore,
	session core.Session,
) Server {
	return Server{
		cfg:          cfg,
		engine:       engine,
		market:       market,
		transactions: transactions,
		session:      session,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(resetRoutePath)
	r.Use(auth.HandleAuthentication(s.session))
	r.Mount("/", rest.Handle(s.engine, s.market, s.transactions, s.cfg.Admins))
	return r
}

func resetRoutePath(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c := chi.RouteContext(ctx); c != nil {
			c.RoutePath = r.URL.Path
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
