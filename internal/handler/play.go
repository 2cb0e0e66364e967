package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-billing/internal/model"
	"github.com/iliyamo/theater-billing/internal/repository"
)

// PlayStore is the catalog persistence used by PlayHandler.
type PlayStore interface {
	List(ctx context.Context) ([]repository.PlayRecord, error)
	GetByID(ctx context.Context, id string) (*repository.PlayRecord, error)
	Upsert(ctx context.Context, p repository.PlayRecord) error
	Delete(ctx context.Context, id string) error
}

// PlayHandler serves the play catalog.  OnChange, when set, runs after every
// successful write (the server uses it to purge cached catalog reads).
type PlayHandler struct {
	Store    PlayStore
	Log      logrus.FieldLogger
	OnChange func(ctx context.Context) error
}

type playResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// List handles GET /v1/plays.
func (h *PlayHandler) List(c echo.Context) error {
	recs, err := h.Store.List(c.Request().Context())
	if err != nil {
		h.Log.WithError(err).Error("plays: list failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]playResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, playResponse{ID: r.ID, Name: r.Name, Type: r.Type})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/plays/:id.
func (h *PlayHandler) Get(c echo.Context) error {
	rec, err := h.Store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPlayNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		}
		h.Log.WithError(err).Error("plays: get failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, playResponse{ID: rec.ID, Name: rec.Name, Type: rec.Type})
}

// Put handles PUT /v1/plays/:id, creating or replacing a play.  Only
// registered types are accepted so the stored catalog can always be priced.
func (h *PlayHandler) Put(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body playPayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if model.ParseGenre(body.Type) == model.GenreUnknown {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown play type", "type": body.Type})
	}

	ctx := c.Request().Context()
	rec := repository.PlayRecord{ID: id, Name: body.Name, Type: body.Type}
	if err := h.Store.Upsert(ctx, rec); err != nil {
		h.Log.WithError(err).WithField("play_id", id).Error("plays: upsert failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.changed(ctx)
	return c.JSON(http.StatusOK, playResponse{ID: rec.ID, Name: rec.Name, Type: rec.Type})
}

// Delete handles DELETE /v1/plays/:id.
func (h *PlayHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Store.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrPlayNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		}
		h.Log.WithError(err).Error("plays: delete failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.changed(ctx)
	return c.NoContent(http.StatusNoContent)
}

func (h *PlayHandler) changed(ctx context.Context) {
	if h.OnChange == nil {
		return
	}
	if err := h.OnChange(ctx); err != nil {
		h.Log.WithError(err).Warn("plays: change hook failed")
	}
}
