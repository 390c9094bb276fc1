package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/auth"
	"github.com/uma-movies/uma-server/internal/service"
)

// UserHandler handles account and favourites requests.
type UserHandler struct {
	users  *service.UserService
	logger zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With().Str("handler", "user").Logger(),
	}
}

// RegisterOpenRoutes mounts the routes that do not require a token.
func (h *UserHandler) RegisterOpenRoutes(r chi.Router) {
	r.Post("/users", h.register)
	r.Post("/login", h.login)
}

// RegisterRoutes mounts the routes that require an authenticated user.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/logout", h.logout)
	r.Get("/users/me", h.me)
	r.Post("/users/me/favourites", h.addFavourite)
	r.Delete("/users/me/favourites/{movie}", h.removeFavourite)
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"api_token"`
}

type favouriteRequest struct {
	Movie string `json:"movie" validate:"required"`
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	user, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: user.APIToken()})
}

func (h *UserHandler) logout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, r, service.ErrInvalidToken)
		return
	}

	if err := h.users.Logout(r.Context(), user); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, r, service.ErrInvalidToken)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) addFavourite(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, r, service.ErrInvalidToken)
		return
	}

	var req favouriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	if err := h.users.AddFavourite(r.Context(), user, req.Movie); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) removeFavourite(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, r, service.ErrInvalidToken)
		return
	}

	if err := h.users.RemoveFavourite(r.Context(), user, pathParam(r, "movie")); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
