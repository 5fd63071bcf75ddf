package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmgrid/booking-engine/internal/model"
	"github.com/filmgrid/booking-engine/internal/repository"
)

// MovieHandler serves the movie catalog.
type MovieHandler struct {
	MovieRepo *repository.MovieRepo
}

// NewMovieHandler constructs a MovieHandler.
func NewMovieHandler(movieRepo *repository.MovieRepo) *MovieHandler {
	if movieRepo == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{MovieRepo: movieRepo}
}

func movieJSON(m *model.Movie) echo.Map {
	return echo.Map{
		"id":           m.ID,
		"title":        m.Title,
		"duration_min": m.DurationMin,
	}
}

// Create handles POST /v1/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		DurationMin uint32 `json:"duration_min"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if body.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min must be positive"})
	}
	m := &model.Movie{Title: body.Title, DurationMin: body.DurationMin}
	if err := h.MovieRepo.Create(c.Request().Context(), m); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, movieJSON(m))
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	m, err := h.MovieRepo.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, movieJSON(m))
}

// List handles GET /v1/movies.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.MovieRepo.List(c.Request().Context())
	if err != nil {
		return engineError(c, err)
	}
	list := make([]echo.Map, 0, len(movies))
	for i := range movies {
		list = append(list, movieJSON(&movies[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": list})
}
