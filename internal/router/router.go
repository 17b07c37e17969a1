package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-board/internal/handler"
	"github.com/iliyamo/qa-board/internal/hub"
	"github.com/iliyamo/qa-board/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Health)
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the /auth group: open register/token endpoints
// plus the protected account and moderation endpoints. The jwtSecret is
// the same secret the token service signs with.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, m *handler.ModerationHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/token", a.Login)

	prot := e.Group("/auth")
	prot.Use(middleware.JWTAuth(jwtSecret))
	prot.GET("/users/me", a.Me)
	prot.DELETE("/answer", m.DeleteAnswer)
	prot.POST("/change-status", m.ChangeStatus)
}

// RegisterBoard registers the question/answer endpoints. Reads stay
// open; every mutating operation sits behind the bearer gate, including
// question and answer creation. The cache middleware is applied only to
// the two list routes.
func RegisterBoard(e *echo.Echo, q *handler.QuestionHandler, a *handler.AnswerHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	auth := middleware.JWTAuth(jwtSecret)
	e.POST("/question", q.Create, auth)
	e.GET("/questions", q.List, cache)
	e.POST("/answer", a.Create, auth)
	e.GET("/answers/:questionid", a.ListByQuestion, cache)
}

// RegisterWS exposes the realtime channel. The handshake itself is
// unauthenticated; subscribers only ever receive broadcasts.
func RegisterWS(e *echo.Echo, h *hub.Hub) {
	e.GET("/ws", h.Serve)
}
