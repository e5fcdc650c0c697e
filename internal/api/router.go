package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/handlers"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/middleware"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/config"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/events"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/faces"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/metrics"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewRouter wires services, handlers, and guard chains. The pool is only
// used by the readiness probe; everything else goes through the repository.
func NewRouter(cfg config.Config, logger zerolog.Logger, repo storage.Repository, pool *pgxpool.Pool, version string) http.Handler {
	env := cfg.Environment

	schoolsService := schools.NewService(repo.Schools())
	accountsService := accounts.NewService(repo.Accounts(), repo.Schools(), logger)
	eventsService := events.NewService(repo.Events(), repo.Accounts(), repo.Schedules(), logger)
	facesService := faces.NewService(repo.Faces(), repo.Accounts(), logger)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	authHandler := handlers.NewAuthHandler(accountsService, jwtManager, env)
	eventsHandler := handlers.NewEventsHandler(eventsService, env)
	schoolsHandler := handlers.NewSchoolsHandler(schoolsService, env)
	studentsHandler := handlers.NewStudentsHandler(accountsService, env)
	facesHandler := handlers.NewFacesHandler(facesService, env)
	scheduleHandler := handlers.NewScheduleHandler(repo.Schedules(), env)
	healthHandler := handlers.NewHealthHandler(pool, version)

	authenticate := middleware.Authenticate(jwtManager, repo.Accounts(), env)
	loginLimit := middleware.LoginRateLimit(cfg.RateLimit)

	// guard builds the chain for a protected route: token check first, then
	// the role set.
	guard := func(h http.HandlerFunc, roles ...auth.Role) http.Handler {
		return authenticate(middleware.RequireRoles(env, roles...)(h))
	}

	admin := func(h http.HandlerFunc) http.Handler { return guard(h, auth.RoleAdmin) }
	counters := func(h http.HandlerFunc) http.Handler {
		return guard(h, auth.RoleStaff, auth.RoleAdmin, auth.RoleOwner)
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", http.HandlerFunc(healthHandler.Healthz))
	mux.Handle("/readyz", http.HandlerFunc(healthHandler.Readyz))

	mux.Handle("/login", methodMux(map[string]http.Handler{
		http.MethodPost: loginLimit(http.HandlerFunc(authHandler.Login)),
	}))

	mux.Handle("/events", methodMux(map[string]http.Handler{
		http.MethodPost: admin(eventsHandler.Create),
	}))
	mux.Handle("/events/all", methodMux(map[string]http.Handler{
		http.MethodGet: admin(eventsHandler.ListAll),
	}))
	mux.Handle("/events/irrelevant", methodMux(map[string]http.Handler{
		http.MethodGet: admin(eventsHandler.ListIrrelevant),
	}))
	mux.Handle("/events/danger", methodMux(map[string]http.Handler{
		http.MethodGet: admin(eventsHandler.ListDanger),
	}))
	mux.Handle("/events/entrance", methodMux(map[string]http.Handler{
		http.MethodGet: admin(eventsHandler.ListEntrance),
	}))
	mux.Handle("/events/exit", methodMux(map[string]http.Handler{
		http.MethodGet: admin(eventsHandler.ListExit),
	}))
	mux.Handle("/events/lying", methodMux(map[string]http.Handler{
		http.MethodGet: admin(eventsHandler.ListLying),
	}))
	mux.Handle("/events/count", methodMux(map[string]http.Handler{
		http.MethodGet: guard(eventsHandler.Count, auth.RoleAdmin, auth.RoleStaff),
	}))
	mux.Handle("/events/weekly", methodMux(map[string]http.Handler{
		http.MethodGet: admin(eventsHandler.Weekly),
	}))

	mux.Handle("/face_encodings", methodMux(map[string]http.Handler{
		http.MethodPost: admin(facesHandler.Create),
		http.MethodGet:  admin(facesHandler.List),
	}))

	mux.Handle("/schools", methodMux(map[string]http.Handler{
		http.MethodPost: admin(schoolsHandler.Create),
		http.MethodGet:  admin(schoolsHandler.List),
	}))
	mux.Handle("/schools/count", methodMux(map[string]http.Handler{
		http.MethodGet: counters(schoolsHandler.Count),
	}))
	mux.Handle("/schools/{id}", methodMux(map[string]http.Handler{
		http.MethodPut: admin(schoolsHandler.Rename),
	}))

	mux.Handle("/students", methodMux(map[string]http.Handler{
		http.MethodPost: admin(studentsHandler.Create),
		http.MethodGet:  counters(studentsHandler.List),
	}))
	mux.Handle("/students/count", methodMux(map[string]http.Handler{
		http.MethodGet: counters(studentsHandler.Count),
	}))
	mux.Handle("/students/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: admin(studentsHandler.Delete),
	}))

	mux.Handle("/schedule", methodMux(map[string]http.Handler{
		http.MethodPut: admin(scheduleHandler.Upsert),
	}))

	var handler http.Handler = mux
	handler = metrics.Middleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := routes[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(routes))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(routes map[string]http.Handler) string {
	methods := make([]string, 0, len(routes))
	for method := range routes {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
