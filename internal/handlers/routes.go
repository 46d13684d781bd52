package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"casagateway-proxy/internal/config"
	"casagateway-proxy/internal/middleware"
	"casagateway-proxy/internal/proxy"
	"casagateway-proxy/pkg/lambda"
	"casagateway-proxy/pkg/server"
)

// Route paths
const (
	PathProperties  = "/api/properties"
	PathDebug       = "/api/debug"
	PathPageBuilder = "/api/v2/properties"
	PathHealth      = "/health"
)

const (
	serviceName    = "casagateway-proxy"
	serviceVersion = "1.0.0"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Properties    *proxy.Pipeline
	Debug         *proxy.Pipeline
	PageBuilder   *proxy.Pipeline
	DefaultFormat string
	RateLimit     config.RateLimitConfig
}

// NewRouterConfig builds the route configuration from a container
func NewRouterConfig(c *server.Container) *RouterConfig {
	return &RouterConfig{
		Properties:    c.Properties,
		Debug:         c.Debug,
		PageBuilder:   c.PageBuilder,
		DefaultFormat: c.Config.Upstream.DefaultFormat,
		RateLimit:     c.Config.RateLimit,
	}
}

// handlersByPath maps each endpoint to its handler
func (rc *RouterConfig) handlersByPath() map[string]*PropertiesHandler {
	return map[string]*PropertiesHandler{
		PathProperties:  NewPropertiesHandler(rc.Properties, rc.DefaultFormat),
		PathDebug:       NewPropertiesHandler(rc.Debug, rc.DefaultFormat),
		PathPageBuilder: NewPropertiesHandler(rc.PageBuilder, rc.DefaultFormat),
	}
}

// NewRouter creates a gin engine with middleware and routes installed
func NewRouter(rc *RouterConfig) *gin.Engine {
	router := gin.New()
	SetupMiddleware(router, rc)
	SetupRoutes(router, rc)
	return router
}

// SetupMiddleware installs the global middleware chain. CORS runs before the
// rate limiter so preflight requests on any path always succeed.
func SetupMiddleware(router *gin.Engine, rc *RouterConfig) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimiter(rc.RateLimit.RequestsPerSecond, rc.RateLimit.Burst))
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, rc *RouterConfig) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET(PathHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, healthBody())
	})

	for path, handler := range rc.handlersByPath() {
		router.GET(path, handler.GetProperties)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Envelope:  proxy.Envelope{Error: "Not found", Message: "No route for " + c.Request.URL.Path},
			RequestID: c.GetString(middleware.RequestIDKey),
		})
	})
}

func healthBody() gin.H {
	return gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	}
}

// LambdaRouter dispatches API Gateway requests to the same handlers as the
// gin router
type LambdaRouter struct {
	routes map[string]*PropertiesHandler
}

// NewLambdaRouter creates a router for the Lambda entrypoint
func NewLambdaRouter(rc *RouterConfig) *LambdaRouter {
	return &LambdaRouter{routes: rc.handlersByPath()}
}

// Dispatch routes req by method and path
func (r *LambdaRouter) Dispatch(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if req.Method == http.MethodOptions {
		return HandleOptions(), nil
	}

	path := strings.TrimSuffix(req.Path, "/")
	if req.Method == http.MethodGet {
		if handler, ok := r.routes[path]; ok {
			return handler.HandleGet(ctx, req)
		}
		if path == PathHealth {
			return jsonResponse(http.StatusOK, healthBody())
		}
	}

	return jsonResponse(http.StatusNotFound, ErrorResponse{
		Envelope:  proxy.Envelope{Error: "Not found", Message: "No route for " + req.Path},
		RequestID: req.RequestID,
	})
}
