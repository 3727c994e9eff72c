package router

import (
	"net/http"

	"github.com/deppfellow/go-signup/internal/handler"
	"github.com/deppfellow/go-signup/internal/middleware"
	"github.com/labstack/echo/v4"
)

func registerSignupRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	g.POST("/signup",
		handler.Handle(h.Signup.Handler, h.Signup.Signup, http.StatusCreated, handler.NewSignupRequest),
		m.RateLimit.Signup(),
	)
}
