package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/auth"
	"freelance-booking-api/internal/model"
	"freelance-booking-api/internal/oauth"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		IsFreelancer bool   `json:"is_freelancer"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}
	if in.Email == "" || in.Password == "" {
		h.respondError(w, r, apperr.E(apperr.KindValidation, "email and password are required"))
		return
	}
	if len(in.Password) < 8 {
		h.respondError(w, r, apperr.E(apperr.KindValidation, "password must be at least 8 characters"))
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	email := strings.ToLower(in.Email)
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        &email,
		PasswordHash: &hash,
		IsFreelancer: in.IsFreelancer,
	}
	if err := h.users.CreateUser(r.Context(), u); err != nil {
		h.respondError(w, r, err)
		return
	}

	tok, err := auth.MakeToken(u, h.secret)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"message":       "user registered successfully",
		"user_id":       u.ID,
		"email":         email,
		"is_freelancer": u.IsFreelancer,
		"access_token":  tok,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}
	if in.Email == "" || in.Password == "" {
		h.respondError(w, r, apperr.E(apperr.KindValidation, "email and password are required"))
		return
	}

	u, err := h.users.UserByEmail(r.Context(), strings.ToLower(in.Email))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	// OAuth-only accounts carry no password credential
	if u.PasswordHash == nil || !auth.CheckPassword(*u.PasswordHash, in.Password) {
		h.respondError(w, r, apperr.E(apperr.KindUnauthorized, "invalid credentials"))
		return
	}

	h.respondIdentity(w, r, u, "login successful", http.StatusOK)
}

func (h *Handler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token        string `json:"token"`
		IsFreelancer bool   `json:"is_freelancer"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}
	if in.Token == "" {
		h.respondError(w, r, apperr.E(apperr.KindValidation, "token is required"))
		return
	}

	profile, err := h.google.Verify(r.Context(), in.Token)
	if err != nil {
		h.respondError(w, r, apperr.Wrap(apperr.KindUnauthorized, "invalid google token", err))
		return
	}
	h.oauthLogin(w, r, "google", profile, in.IsFreelancer)
}

func (h *Handler) GitHubAuth(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code         string `json:"code"`
		IsFreelancer bool   `json:"is_freelancer"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}
	if in.Code == "" {
		h.respondError(w, r, apperr.E(apperr.KindValidation, "code is required"))
		return
	}

	profile, err := h.github.Exchange(r.Context(), in.Code)
	if err != nil {
		h.respondError(w, r, apperr.Wrap(apperr.KindUnauthorized, "invalid github code", err))
		return
	}
	h.oauthLogin(w, r, "github", profile, in.IsFreelancer)
}

// oauthLogin finds the account behind a verified provider identity, creating
// it on first login. The freelancer flag only matters on that first login; it
// never changes an existing account.
func (h *Handler) oauthLogin(w http.ResponseWriter, r *http.Request, provider string, profile *oauth.Profile, isFreelancer bool) {
	u, err := h.users.UserByProvider(r.Context(), provider, profile.ProviderID)
	switch {
	case err == nil:
	case apperr.KindOf(err) == apperr.KindNotFound:
		var email *string
		if profile.Email != nil {
			e := strings.ToLower(*profile.Email)
			email = &e
		}
		u = &model.User{
			ID:           uuid.New().String(),
			Email:        email,
			Provider:     &provider,
			ProviderID:   &profile.ProviderID,
			IsFreelancer: isFreelancer,
		}
		if err := h.users.CreateUser(r.Context(), u); err != nil {
			h.respondError(w, r, err)
			return
		}
	default:
		h.respondError(w, r, err)
		return
	}

	h.respondIdentity(w, r, u, provider+" authentication successful", http.StatusOK)
}

func (h *Handler) respondIdentity(w http.ResponseWriter, r *http.Request, u *model.User, msg string, code int) {
	tok, err := auth.MakeToken(u, h.secret)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, code, map[string]any{
		"message":       msg,
		"user_id":       u.ID,
		"email":         u.Email,
		"is_freelancer": u.IsFreelancer,
		"access_token":  tok,
	})
}
