package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/service"
)

// GenreHandler handles genre catalogue requests.
type GenreHandler struct {
	genres *service.GenreService
	logger zerolog.Logger
}

// NewGenreHandler creates a new genre handler.
func NewGenreHandler(genres *service.GenreService, logger zerolog.Logger) *GenreHandler {
	return &GenreHandler{
		genres: genres,
		logger: logger.With().Str("handler", "genre").Logger(),
	}
}

// RegisterRoutes mounts the genre routes on the given router.
func (h *GenreHandler) RegisterRoutes(r chi.Router) {
	r.Route("/genres", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{name}", h.show)
		r.Delete("/{name}", h.remove)
		r.Post("/{name}/movies", h.addMovie)
		r.Delete("/{name}/movies/{movie}", h.removeMovie)
		r.Post("/{name}/actors", h.addActor)
		r.Delete("/{name}/actors/{actor}", h.removeActor)
	})
}

type createGenreRequest struct {
	Name string `json:"name" validate:"required"`
}

type genreMovieRequest struct {
	Movie string `json:"movie" validate:"required"`
}

type genreActorRequest struct {
	Actor string `json:"actor" validate:"required"`
}

func (h *GenreHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createGenreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	genre, err := h.genres.Create(r.Context(), req.Name)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, genre)
}

func (h *GenreHandler) list(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	result, err := h.genres.List(r.Context(), opts)
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

func (h *GenreHandler) show(w http.ResponseWriter, r *http.Request) {
	genre, err := h.genres.Show(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, genre)
}

func (h *GenreHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.genres.Remove(r.Context(), pathParam(r, "name")); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GenreHandler) addMovie(w http.ResponseWriter, r *http.Request) {
	var req genreMovieRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	genre, err := h.genres.AddMovie(r.Context(), pathParam(r, "name"), req.Movie)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, genre)
}

func (h *GenreHandler) removeMovie(w http.ResponseWriter, r *http.Request) {
	genre, err := h.genres.RemoveMovie(r.Context(), pathParam(r, "name"), pathParam(r, "movie"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, genre)
}

func (h *GenreHandler) addActor(w http.ResponseWriter, r *http.Request) {
	var req genreActorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	genre, err := h.genres.AddActor(r.Context(), pathParam(r, "name"), req.Actor)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, genre)
}

func (h *GenreHandler) removeActor(w http.ResponseWriter, r *http.Request) {
	genre, err := h.genres.RemoveActor(r.Context(), pathParam(r, "name"), pathParam(r, "actor"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, genre)
}
