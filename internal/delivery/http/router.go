package http

import (
	"log/slog"
	"net/http"

	_ "communityadmin/docs"
	"communityadmin/internal/delivery/http/controllers"
	"communityadmin/internal/delivery/http/helpers"
	"communityadmin/internal/delivery/http/middleware"
	"communityadmin/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Event    *controllers.EventController
	Attendee *controllers.AttendeeController
	Content  *controllers.ContentController
	Auth     *controllers.AuthController
}

// RouterConfig carries what the middleware chain needs besides the handlers.
type RouterConfig struct {
	Logger      *slog.Logger
	Verifier    domain.TokenVerifier
	CORSOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and wraps it
// with CORS and request logging.
func NewRouter(cfg RouterConfig, c Controllers) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	optional := middleware.OptionalAuth(cfg.Verifier, cfg.Logger)

	mux.HandleFunc("GET /health", health)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /auth/me", auth(c.Auth.Me))

	// Events
	mux.HandleFunc("GET /events", optional(c.Event.ListEvents))
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events/calendar", c.Event.Calendar)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))

	// Attendance (event owner)
	mux.HandleFunc("POST /events/{eventID}/check-ins", auth(c.Attendee.CheckIn))
	mux.HandleFunc("GET /events/{eventID}/attendance", auth(c.Attendee.GetAttendance))

	// Attendee
	mux.HandleFunc("GET /attendee/events", auth(c.Attendee.ListMyRegisteredEvents))
	mux.HandleFunc("POST /attendee/registrations", auth(c.Attendee.RegisterForEventByCode))
	mux.HandleFunc("POST /attendee/events/{eventID}/registrations", auth(c.Attendee.RegisterForEvent))
	mux.HandleFunc("DELETE /attendee/events/{eventID}/registrations", auth(c.Attendee.CancelRegistration))
	mux.HandleFunc("GET /attendee/events/{eventID}/registration", auth(c.Attendee.GetRegistrationStatus))

	// Content library
	mux.HandleFunc("GET /content", optional(c.Content.ListContent))
	mux.HandleFunc("POST /content", auth(c.Content.CreateContent))
	mux.HandleFunc("POST /content/uploads", auth(c.Content.RequestUpload))
	mux.HandleFunc("GET /content/{contentID}", optional(c.Content.GetContent))
	mux.HandleFunc("PUT /content/{contentID}/tags", auth(c.Content.SetContentTags))
	mux.HandleFunc("DELETE /content/{contentID}", auth(c.Content.DeleteContent))
	mux.HandleFunc("GET /tags", c.Content.ListTags)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(cfg.Logger, mux))
}

func health(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
