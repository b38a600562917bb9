package handlers

import (
	"todo_app/internal/logger"
	"todo_app/internal/service"
	"todo_app/internal/ui"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler is the HTTP render host: it exposes the state manager as a JSON API
// and streams every commit over a WebSocket.
type Handler struct {
	services *service.Service
	events   *ui.Controller
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		services: services,
		events:   ui.NewController(services, log),
		log:      log,
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Raw render host events, same contract as the terminal UI.
	router.POST("/events", h.postEvent)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/logout", h.sessionMiddleware, h.logout)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.sessionMiddleware)
	{
		api.GET("/state", h.getState)
		h.registerTodoRoutes(api)
		h.registerViewRoutes(api)
	}
}

func (h *Handler) registerTodoRoutes(api *gin.RouterGroup) {
	todos := api.Group("/todos")
	{
		todos.GET("", h.listTodos)
		// Body example: {"text":"Buy milk"}
		todos.POST("", h.addTodo)
		todos.PUT("/edit", h.saveEdit)
		todos.DELETE("/edit", h.cancelEdit)
		todos.DELETE("/:index", h.deleteTodo)
		todos.POST("/:index/edit", h.startEdit)
		todos.POST("/:index/toggle", h.toggleTodo)
	}
}

func (h *Handler) registerViewRoutes(api *gin.RouterGroup) {
	api.POST("/view", h.navigate)
	api.POST("/menu/toggle", h.toggleMenu)
}
