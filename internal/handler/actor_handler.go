package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/service"
)

// ActorHandler handles actor catalogue requests.
type ActorHandler struct {
	actors *service.ActorService
	logger zerolog.Logger
}

// NewActorHandler creates a new actor handler.
func NewActorHandler(actors *service.ActorService, logger zerolog.Logger) *ActorHandler {
	return &ActorHandler{
		actors: actors,
		logger: logger.With().Str("handler", "actor").Logger(),
	}
}

// RegisterRoutes mounts the actor routes on the given router.
func (h *ActorHandler) RegisterRoutes(r chi.Router) {
	r.Route("/actors", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{name}", h.show)
		r.Patch("/{name}", h.change)
		r.Delete("/{name}", h.remove)
	})
}

type createActorRequest struct {
	Name  string `json:"name" validate:"required"`
	Birth string `json:"birth" validate:"required"`
}

type changeActorRequest struct {
	Birth *string `json:"birth"`
	Bio   *string `json:"bio"`
	Image *string `json:"image"`
}

func (h *ActorHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createActorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	birth, err := parseBirth(req.Birth)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	actor, err := h.actors.Create(r.Context(), service.CreateActorInput{
		Name:  req.Name,
		Birth: birth,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, actor)
}

func (h *ActorHandler) list(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	result, err := h.actors.List(r.Context(), opts)
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

func (h *ActorHandler) show(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actors.Show(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actor)
}

func (h *ActorHandler) change(w http.ResponseWriter, r *http.Request) {
	var req changeActorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	input := service.ChangeActorInput{
		Name:  pathParam(r, "name"),
		Bio:   req.Bio,
		Image: req.Image,
	}
	if req.Birth != nil {
		birth, err := parseBirth(*req.Birth)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		input.Birth = &birth
	}

	actor, err := h.actors.Change(r.Context(), input)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actor)
}

func (h *ActorHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.actors.Remove(r.Context(), pathParam(r, "name")); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
