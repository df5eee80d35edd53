package api

import (
	"fmt"
	"net/http"

	"github.com/erstaunlich/wortschatz/app/db"
	"github.com/erstaunlich/wortschatz/app/dictionary"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	storage db.Storage
	router  chi.Router
}

func (s *Server) Run(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.router)
}

func (s *Server) setJsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func NewServer(storage db.Storage, dictService *dictionary.Service, apiKey string, jwtSecret string) *Server {
	s := &Server{storage: storage}
	dict := dictionaryService{storage: storage, dict: dictService}
	favorites := favoritesService{storage: storage}
	auth := authService{apiKey: apiKey, jwtSecret: []byte(jwtSecret)}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.setJsonContentType)
		r.Route("/auth", func(r chi.Router) {
			r.Get("/token", auth.TokenHandler)
		})
		r.Get("/search", dict.Search)
		r.Route("/words", func(r chi.Router) {
			r.Get("/featured", dict.Featured)
			r.Get("/random", dict.Random)
			r.Get("/{word}", dict.GetWord)
		})
		r.Get("/categories", dict.Categories)
		r.Route("/favorites", func(r chi.Router) {
			r.Use(auth.UserCtx)
			r.Get("/", favorites.List)
			r.Put("/{word}", favorites.Put)
			r.Delete("/{word}", favorites.Delete)
		})
	})

	s.router = r
	return s
}
