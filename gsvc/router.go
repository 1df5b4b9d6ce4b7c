package gsvc

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router for api, mounted under PathPrefix.
// POST/DELETE /grammars and /grammars/{name} require a valid bearer token;
// GET /grammars, GET /grammars/{name}, and POST /grammars/{name}/parse do
// not.
func NewRouter(api API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/token", api.HTTPCreateToken())

		r.Route("/grammars", func(r chi.Router) {
			r.Get("/", api.HTTPGetAllGrammars())
			r.With(tokenRequired(api)).Post("/", api.HTTPCreateGrammar())

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", api.HTTPGetGrammar())
				r.With(tokenRequired(api)).Delete("/", api.HTTPDeleteGrammar())
				r.Post("/parse", api.HTTPParseLine())
			})
		})
	})

	return r
}

func tokenRequired(api API) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireToken(api.Secret, api.UnauthDelay, next)
	}
}

// DefaultUnauthDelay is the API.UnauthDelay that cmd/gramserve configures.
// An API whose UnauthDelay is left at zero does not pause at all.
const DefaultUnauthDelay = time.Second
