package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/wekesa360/todohub/internal/auth"
	"github.com/wekesa360/todohub/internal/cache"
	"github.com/wekesa360/todohub/internal/config"
	"github.com/wekesa360/todohub/internal/http/handlers"
	"github.com/wekesa360/todohub/internal/http/middlewares"
	"github.com/wekesa360/todohub/internal/observability"
)

// Deps carries the collaborators the router wires into handlers. main
// passes the postgres stores; tests pass the memory ones.
type Deps struct {
	Users handlers.UserStore
	Todos handlers.TodoStore
	JWT   *auth.Manager
	Lists *cache.TodoLists
	Prom  *observability.Prom
	Reg   *prometheus.Registry
	Ping  func() error
}

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	r.Use(otelgin.Middleware("todohub"))

	// health + metrics
	health := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if deps.Reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Reg, promhttp.HandlerOpts{})))
	}

	// handlers
	authHandler := handlers.NewAuthHandler(deps.Users, deps.JWT, cfg)
	usersHandler := handlers.NewUsersHandler(deps.Users)
	todosHandler := handlers.NewTodosHandler(deps.Todos, deps.Lists)
	adminHandler := handlers.NewAdminHandler(deps.Todos, deps.Lists)

	guard := middlewares.NewAuthMiddleware(deps.JWT)

	// registration and login
	r.POST("/auth", authHandler.Register)
	r.POST("/token", authHandler.Login)

	// caller-scoped todos
	todos := r.Group("/todos", guard.RequireAuth())
	todos.GET("/todo/", todosHandler.ListTodos)
	todos.POST("/todo/", todosHandler.CreateTodo)
	todos.GET("/todo/:id", todosHandler.GetTodo)
	todos.PUT("/todo/:id", todosHandler.UpdateTodo)
	todos.DELETE("/todo/:id", todosHandler.DeleteTodo)

	// admin surface
	admin := r.Group("/admin", guard.RequireAuth(), guard.RequireRole("admin"))
	admin.GET("/todo/", adminHandler.ListAllTodos)
	admin.GET("/todo/:id", adminHandler.GetTodo)
	admin.DELETE("/todo/:id", adminHandler.DeleteTodo)

	// profile
	users := r.Group("/users", guard.RequireAuth())
	users.GET("/", usersHandler.GetProfile)
	users.PUT("/change-password", usersHandler.ChangePassword)

	return r
}
