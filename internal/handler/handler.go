package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/booking"
	"freelance-booking-api/internal/catalog"
	"freelance-booking-api/internal/middleware"
	"freelance-booking-api/internal/model"
	"freelance-booking-api/internal/oauth"
	"freelance-booking-api/internal/payments"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByProvider(ctx context.Context, provider, providerID string) (*model.User, error)
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*oauth.Profile, error)
}

type GitHubExchanger interface {
	Exchange(ctx context.Context, code string) (*oauth.Profile, error)
}

type Handler struct {
	users          UserStore
	catalog        *catalog.Catalog
	bookings       *booking.Engine
	payments       payments.Provider
	google         GoogleVerifier
	github         GitHubExchanger
	secret         string
	publishableKey string
	log            *slog.Logger
}

type Deps struct {
	Users          UserStore
	Catalog        *catalog.Catalog
	Bookings       *booking.Engine
	Payments       payments.Provider
	Google         GoogleVerifier
	GitHub         GitHubExchanger
	Secret         string
	PublishableKey string
	Log            *slog.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		users:          d.Users,
		catalog:        d.Catalog,
		bookings:       d.Bookings,
		payments:       d.Payments,
		google:         d.Google,
		github:         d.GitHub,
		secret:         d.Secret,
		publishableKey: d.PublishableKey,
		log:            d.Log,
	}
}

// Router wires the REST surface. Reads on services and categories are public;
// everything that writes, and everything touching appointments, sits behind a
// Bearer token. The payment-redirect landing route is open because the
// processor calls back without our token.
func (h *Handler) Router(rl *middleware.RateLimiter) http.Handler {
	authed := middleware.Auth(h.secret, h.users)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(h.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimit(rl))
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/google", h.GoogleAuth)
		r.Post("/github", h.GitHubAuth)
	})

	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.ListServices)
		r.Get("/freelancer/{id}", h.ServicesByFreelancer)
		r.Get("/category/{id}", h.ServicesByCategory)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Get("/{id}", h.GetCategory)
			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Post("/", h.CreateCategory)
				r.Put("/{id}", h.UpdateCategory)
				r.Delete("/{id}", h.DeleteCategory)
			})
		})

		r.Get("/{id}", h.GetService)
		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Post("/", h.CreateService)
			r.Put("/{id}", h.UpdateService)
			r.Delete("/{id}", h.DeleteService)
		})
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/success", h.ConfirmCheckout)

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Get("/", h.ListAppointments)
			r.Post("/", h.CreateAppointment)
			r.Post("/checkout", h.StartCheckout)
			r.Get("/freelancer/{id}", h.AppointmentsByFreelancer)
			r.Get("/client/{id}", h.AppointmentsByClient)
			r.Get("/{id}", h.GetAppointment)
			r.Put("/{id}", h.UpdateAppointment)
			r.Delete("/{id}", h.DeleteAppointment)
		})
	})

	return r
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		h.log.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	h.respondJSON(w, status, map[string]string{"message": apperr.Message(err)})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.E(apperr.KindValidation, "invalid request body")
	}
	return nil
}

func naive(t time.Time) string {
	return t.Format(booking.ScheduleLayout)
}

func serviceJSON(s *model.Service) map[string]any {
	out := map[string]any{
		"id":          s.ID,
		"user_id":     s.OwnerID,
		"category_id": s.CategoryID,
		"title":       s.Title,
		"price":       s.Price,
		"duration":    s.DurationMinutes,
		"description": s.Description,
	}
	if s.Owner != nil {
		out["owner"] = map[string]any{
			"id":            s.Owner.ID,
			"email":         s.Owner.Email,
			"is_freelancer": s.Owner.IsFreelancer,
		}
	}
	if s.Category != nil {
		out["category"] = map[string]any{
			"id":   s.Category.ID,
			"name": s.Category.Name,
		}
	}
	return out
}

func appointmentJSON(a *model.Appointment) map[string]any {
	out := map[string]any{
		"id":           a.ID,
		"client_id":    a.ClientID,
		"service_id":   a.ServiceID,
		"scheduled_at": naive(a.ScheduledAt),
		"created_at":   naive(a.CreatedAt),
	}
	if a.Service != nil {
		out["service"] = map[string]any{
			"title":    a.Service.Title,
			"duration": a.Service.DurationMinutes,
		}
	}
	return out
}

func categoryJSON(c *model.Category) map[string]any {
	return map[string]any{"id": c.ID, "name": c.Name}
}
