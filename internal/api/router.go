package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/dinamo-digital/crm-api/docs"
	"github.com/dinamo-digital/crm-api/internal/api/handler"
	"github.com/dinamo-digital/crm-api/internal/api/middleware"
	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

const bodyLimit = "12M"

// Services bundles the use cases the HTTP layer delegates to.
type Services struct {
	Auth          ports.AuthService
	Clients       ports.ClientService
	Sessions      ports.SessionService
	Opportunities ports.OpportunityService
	Transfer      ports.ClientTransfer
	WhatsApp      ports.WhatsAppService
	Email         ports.EmailService
	Contact       ports.ContactService
}

// Options carries the router's wiring beyond the services.
type Options struct {
	JWTSecret            string
	TrustIdentityHeaders bool
	CORS                 middleware.CORSConfig
	WebhookVerifyToken   string

	Webhook  handler.EventQueue
	Pipeline *handler.PipelineHub
	Checks   []handler.DependencyCheck

	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORS(opts.CORS))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "crm",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	clientHandler := handler.NewClientHandler(svc.Clients, svc.Transfer)
	sessionHandler := handler.NewSessionHandler(svc.Sessions)
	opportunityHandler := handler.NewOpportunityHandler(svc.Opportunities)
	messagingHandler := handler.NewMessagingHandler(svc.WhatsApp, svc.Email, svc.Contact)
	webhookHandler := handler.NewWebhookHandler(opts.Webhook, opts.WebhookVerifyToken, opts.Logger)

	// --- Public routes ---
	e.GET("/health", handler.NewHealthHandler().Liveness)                         // liveness  – is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(opts.Checks...).Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/login", authHandler.Login)
	e.POST("/contact", messagingHandler.Contact)
	e.GET("/whatsapp/webhook", webhookHandler.Verify)
	e.POST("/whatsapp/webhook", webhookHandler.Receive)

	// --- Authenticated routes ---
	authed := e.Group("", middleware.Auth(opts.JWTSecret, opts.TrustIdentityHeaders))
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	authed.GET("/users", authHandler.ListUsers, adminOnly)

	authed.GET("/clients", clientHandler.List)
	authed.POST("/clients", clientHandler.Create)
	authed.POST("/clients/import", clientHandler.Import)
	authed.GET("/clients/export", clientHandler.Export)
	authed.GET("/clients/:id", clientHandler.Get)
	authed.PUT("/clients/:id", clientHandler.Update)
	authed.PATCH("/clients/:id", clientHandler.Update)
	authed.DELETE("/clients/:id", clientHandler.Delete)

	authed.GET("/sessions", sessionHandler.List)
	authed.POST("/sessions", sessionHandler.Create)
	authed.GET("/sessions/:id", sessionHandler.Get)
	authed.PUT("/sessions/:id", sessionHandler.Update)
	authed.PATCH("/sessions/:id", sessionHandler.Update)
	authed.DELETE("/sessions/:id", sessionHandler.Delete)

	authed.GET("/opportunities", opportunityHandler.List)
	authed.POST("/opportunities", opportunityHandler.Create)
	authed.GET("/opportunities/summary", opportunityHandler.Summary)
	authed.GET("/opportunities/:id", opportunityHandler.Get)
	authed.PUT("/opportunities/:id", opportunityHandler.Update)
	authed.PATCH("/opportunities/:id", opportunityHandler.Update)
	authed.PATCH("/opportunities/:id/stage", opportunityHandler.MoveStage)
	authed.DELETE("/opportunities/:id", opportunityHandler.Delete)

	authed.POST("/whatsapp/send", messagingHandler.SendWhatsApp)
	authed.POST("/whatsapp/bulk-send", messagingHandler.BulkWhatsApp)
	authed.GET("/whatsapp/messages", messagingHandler.Messages, adminOnly)

	authed.POST("/email/send", messagingHandler.SendEmail)
	authed.POST("/email/bulk-send", messagingHandler.BulkEmail)

	if opts.Pipeline != nil {
		authed.GET("/ws/pipeline", opts.Pipeline.Serve)
	}

	e.RouteNotFound("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Ruta no encontrada")
	})

	return e
}
