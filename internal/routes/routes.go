package routes

import (
	"io"
	"os"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"activity_hub/internal/controllers"
	"activity_hub/internal/metrics"
	"activity_hub/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth              *controllers.AuthController
	Accounts          *controllers.AccountController
	Users             *controllers.UserController
	Events            *controllers.EventController
	ParticipantEvents *controllers.RegistrationController
	VolunteerEvents   *controllers.RegistrationController
	Health            *controllers.HealthController
	Tokens            *middleware.TokenManager

	// AccessLog receives one line per request; stdout when nil.
	AccessLog io.Writer
}

func SetupRouter(h Handlers) *gin.Engine {
	accessLog := h.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		ginlog.SetLogger(
			ginlog.WithWriter(accessLog),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/metrics", "/health/live"}),
		),
		metrics.Middleware(),
	)

	OpsRoutes(r, h.Health)
	AuthRoutes(r, h.Auth, h.Tokens)
	AccountRoutes(r, h.Accounts, h.Tokens)
	UserRoutes(r, h.Users, h.Tokens)
	EventRoutes(r, h.Events, h.Tokens)
	RegistrationRoutes(r, "/participant-events", h.ParticipantEvents)
	RegistrationRoutes(r, "/volunteer-events", h.VolunteerEvents)

	return r
}
