// Package handler exposes the HTTP handlers of the billing API.  This file
// turns an invoice posted by a clerk into a statement.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-billing/internal/middleware"
	"github.com/iliyamo/theater-billing/internal/model"
	"github.com/iliyamo/theater-billing/internal/money"
	"github.com/iliyamo/theater-billing/internal/pricing"
	"github.com/iliyamo/theater-billing/internal/queue"
	"github.com/iliyamo/theater-billing/internal/statement"
)

// CatalogSource supplies the stored play catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (model.Catalog, error)
}

// EventPublisher delivers statement events to downstream consumers.
type EventPublisher interface {
	PublishStatementIssued(ctx context.Context, event queue.StatementIssuedEvent) error
}

// StatementHandler issues statements.  Events may be nil, in which case no
// event is published.
type StatementHandler struct {
	Catalog CatalogSource
	Events  EventPublisher
	Log     logrus.FieldLogger
	Now     func() time.Time
}

// NewStatementHandler constructs a StatementHandler and panics if the
// catalog source is nil.
func NewStatementHandler(catalog CatalogSource, events EventPublisher, log logrus.FieldLogger) *StatementHandler {
	if catalog == nil {
		panic("nil catalog source passed to NewStatementHandler")
	}
	return &StatementHandler{Catalog: catalog, Events: events, Log: log, Now: time.Now}
}

type playPayload struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type statementRequest struct {
	Customer     string                 `json:"customer"`
	Performances []model.Performance    `json:"performances"`
	Plays        map[string]playPayload `json:"plays,omitempty"`
}

type statementLine struct {
	PlayID      string `json:"play_id"`
	Play        string `json:"play"`
	Audience    int    `json:"audience"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	AmountText  string `json:"amount_text"`
	Credits     int    `json:"credits"`
}

type statementResponse struct {
	ID               string          `json:"id"`
	Customer         string          `json:"customer"`
	Lines            []statementLine `json:"lines"`
	TotalAmountCents int64           `json:"total_amount_cents"`
	TotalAmount      string          `json:"total_amount"`
	TotalAmountText  string          `json:"total_amount_text"`
	VolumeCredits    int             `json:"volume_credits"`
	Text             string          `json:"text"`
}

// Create handles POST /v1/statements.  The invoice may carry its own play
// catalog under "plays"; otherwise the stored catalog is used.  With
// ?format=text the plain statement is returned instead of JSON.
func (h *StatementHandler) Create(c echo.Context) error {
	var req statementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Customer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer is required"})
	}
	for _, perf := range req.Performances {
		if perf.PlayID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "playID is required"})
		}
		if perf.Audience < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "audience must not be negative", "playID": perf.PlayID})
		}
	}

	ctx := c.Request().Context()
	log := h.Log.WithField("customer", req.Customer)

	var catalog model.Catalog
	if len(req.Plays) > 0 {
		catalog = make(model.Catalog, len(req.Plays))
		for id, p := range req.Plays {
			name := strings.TrimSpace(p.Name)
			if name == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "play name is required", "playID": id})
			}
			catalog[id] = model.NewPlay(name, p.Type)
		}
	} else {
		var err error
		catalog, err = h.Catalog.Catalog(ctx)
		if err != nil {
			log.WithError(err).Error("statement: catalog load failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	inv := model.Invoice{Customer: req.Customer, Performances: req.Performances}
	res, err := statement.Compute(inv, catalog)
	if err != nil {
		return h.writeStatementError(c, log, err)
	}
	text := statement.Render(res)

	id := uuid.NewString()
	h.publish(ctx, log, id, middleware.UserID(c), res)

	if c.QueryParam("format") == "text" {
		return c.String(http.StatusOK, text)
	}
	return c.JSON(http.StatusOK, newStatementResponse(id, res, text))
}

func (h *StatementHandler) writeStatementError(c echo.Context, log logrus.FieldLogger, err error) error {
	var typeErr *pricing.UnknownPlayTypeError
	if errors.As(err, &typeErr) {
		log.WithError(err).Warn("statement: unknown play type")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown play type", "type": typeErr.Type})
	}
	var refErr *statement.UnresolvedPlayReferenceError
	if errors.As(err, &refErr) {
		log.WithError(err).Warn("statement: unresolved play reference")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown play", "playID": refErr.PlayID})
	}
	log.WithError(err).Error("statement: computation failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// publish sends the statement event.  Failures are logged only; the
// statement has already been computed and is returned regardless.
func (h *StatementHandler) publish(ctx context.Context, log logrus.FieldLogger, id, issuedBy string, res statement.Result) {
	if h.Events == nil {
		return
	}
	playIDs := make([]string, 0, len(res.Lines))
	for _, l := range res.Lines {
		playIDs = append(playIDs, l.PlayID)
	}
	ev := queue.StatementIssuedEvent{
		StatementID:      id,
		Customer:         res.Customer,
		IssuedBy:         issuedBy,
		PlayIDs:          playIDs,
		Performances:     len(res.Lines),
		TotalAmountCents: res.TotalAmount,
		VolumeCredits:    res.VolumeCredits,
		IssuedAt:         h.Now().UTC().Format(time.RFC3339),
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := h.Events.PublishStatementIssued(pubCtx, ev); err != nil {
		log.WithError(err).WithField("statement_id", id).Warn("statement: event not published")
	}
}

func newStatementResponse(id string, res statement.Result, text string) statementResponse {
	lines := make([]statementLine, 0, len(res.Lines))
	for _, l := range res.Lines {
		lines = append(lines, statementLine{
			PlayID:      l.PlayID,
			Play:        l.PlayName,
			Audience:    l.Audience,
			AmountCents: l.Amount,
			Amount:      money.Decimal(l.Amount).StringFixed(2),
			AmountText:  money.USD(l.Amount),
			Credits:     l.Credits,
		})
	}
	return statementResponse{
		ID:               id,
		Customer:         res.Customer,
		Lines:            lines,
		TotalAmountCents: res.TotalAmount,
		TotalAmount:      money.Decimal(res.TotalAmount).StringFixed(2),
		TotalAmountText:  money.USD(res.TotalAmount),
		VolumeCredits:    res.VolumeCredits,
		Text:             text,
	}
}
