package rest

import (
	"path/filepath"
	"regexp"
	"time"

	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/Gunvolt24/wf_cart/internal/session"
	"github.com/Gunvolt24/wf_cart/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// HeaderPersisted - "false", если снимок корзины не удалось записать в хранилище.
const HeaderPersisted = "X-Cart-Persisted"

var reSessionID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

type Handler struct {
	sessions *session.Registry
	log      ports.Logger
	timeout  time.Duration
}

// NewHandler - timeout ограничивает обработку запроса; 0 - без ограничения.
func NewHandler(sessions *session.Registry, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{sessions: sessions, log: log, timeout: timeout}
}

func NewRouter(h *Handler, staticDir, serviceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/sessions", h.createSession)

	s := r.Group("/sessions/:sid", h.requireSession)
	{
		s.DELETE("", h.dropSession)
		s.POST("/hello", h.hello)
		s.GET("/page", h.page)
		s.GET("/commands", h.commands)
		s.GET("/notifications", h.notifications)

		s.GET("/cart", h.cart)
		s.POST("/cart/items", h.addItem)
		s.PATCH("/cart/items/:sku", h.updateItem)
		s.DELETE("/cart/items/:sku", h.removeItem)
		s.DELETE("/cart", h.clearCart)
		s.PUT("/cart/notifications", h.setNotifications)

		s.GET("/user", h.user)
		s.PUT("/user", h.signIn)
		s.DELETE("/user", h.signOut)

		s.GET("/checkout", h.checkoutState)
		s.POST("/checkout/start", h.startCheckout)
		s.PUT("/checkout/selection", h.selectCheckout)
		s.POST("/checkout/submit", h.submitCheckout)
	}

	if staticDir != "" {
		r.Static("/static", staticDir)
		r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}

	return r
}
