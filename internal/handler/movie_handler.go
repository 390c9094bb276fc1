package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/auth"
	"github.com/uma-movies/uma-server/internal/service"
)

// MovieHandler handles movie catalogue requests.
type MovieHandler struct {
	movies *service.MovieService
	logger zerolog.Logger
}

// NewMovieHandler creates a new movie handler.
func NewMovieHandler(movies *service.MovieService, logger zerolog.Logger) *MovieHandler {
	return &MovieHandler{
		movies: movies,
		logger: logger.With().Str("handler", "movie").Logger(),
	}
}

// RegisterRoutes mounts the movie routes on the given router.
func (h *MovieHandler) RegisterRoutes(r chi.Router) {
	r.Route("/movies", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{name}", h.show)
		r.Patch("/{name}", h.change)
		r.Delete("/{name}", h.remove)
		r.Post("/{name}/actors", h.addActor)
		r.Delete("/{name}/actors/{actor}", h.removeActor)
	})
}

type createMovieRequest struct {
	Name string `json:"name" validate:"required"`
}

type changeMovieRequest struct {
	Genre       *string `json:"genre"`
	Rating      *int    `json:"rating"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type addMovieActorRequest struct {
	Actor     string `json:"actor" validate:"required"`
	Character string `json:"character" validate:"required"`
}

func (h *MovieHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createMovieRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	movie, err := h.movies.Create(r.Context(), req.Name)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, movie)
}

func (h *MovieHandler) list(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	result, err := h.movies.List(r.Context(), opts)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items:  result.Items,
		Total:  result.Total,
		Offset: result.Offset,
		Limit:  result.Limit,
	})
}

func (h *MovieHandler) show(w http.ResponseWriter, r *http.Request) {
	movie, err := h.movies.Show(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// change applies partial updates. A rating is always attributed to the
// authenticated user making the request.
func (h *MovieHandler) change(w http.ResponseWriter, r *http.Request) {
	var req changeMovieRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	input := service.ChangeMovieInput{
		Name:        pathParam(r, "name"),
		Genre:       req.Genre,
		Rating:      req.Rating,
		Description: req.Description,
		Image:       req.Image,
	}
	if req.Rating != nil {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			writeError(h.logger, w, r, service.ErrInvalidToken)
			return
		}
		input.RatingUser = user.Username()
	}

	movie, err := h.movies.Change(r.Context(), input)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.movies.Remove(r.Context(), pathParam(r, "name")); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MovieHandler) addActor(w http.ResponseWriter, r *http.Request) {
	var req addMovieActorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	movie, err := h.movies.AddActor(r.Context(), pathParam(r, "name"), req.Character, req.Actor)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) removeActor(w http.ResponseWriter, r *http.Request) {
	movie, err := h.movies.RemoveActor(r.Context(), pathParam(r, "name"), pathParam(r, "actor"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}
