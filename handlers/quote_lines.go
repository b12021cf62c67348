package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/models"
	"quotebuilder/services"
)

// addLineRequest is the body of POST /api/quotes/{id}/lines. The
// characteristic maps set initial values on catalog lines.
type addLineRequest struct {
	Kind        models.LineKind                     `json:"tipo"`
	ProductID   string                              `json:"productoId"`
	Reference   string                              `json:"referencia"`
	Description string                              `json:"descripcion"`
	Quantity    int                                 `json:"cantidad"`
	UnitPrice   float64                             `json:"precio"`
	Permanent   map[string]any                      `json:"caracteristicasPermanentes"`
	Selectable  map[string]services.SelectablePatch `json:"caracteristicasSeleccionables"`
}

func HandleLineAdd(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req addLineRequest
		if err := decodeJSON(e, &req); err != nil {
			return respondError(e, "lines: add", err)
		}
		if req.Kind == "" {
			req.Kind = models.LineExisting
		}
		in := services.LineInput{
			Reference:   req.Reference,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
		}
		patch := services.LinePatch{Permanent: req.Permanent, Selectable: req.Selectable}

		q, err := quotes.AddLine(e.Request.Context(), e.Request.PathValue("id"), req.Kind, req.ProductID, in, patch)
		if err != nil {
			return respondError(e, "lines: add", err)
		}
		return e.JSON(http.StatusCreated, q)
	}
}

// HandleLineUpdate applies a partial update to one line.
func HandleLineUpdate(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var patch services.LinePatch
		if err := decodeJSON(e, &patch); err != nil {
			return respondError(e, "lines: update", err)
		}
		q, err := quotes.UpdateQuoteLine(e.Request.Context(), e.Request.PathValue("id"), e.Request.PathValue("lineId"), patch)
		if err != nil {
			return respondError(e, "lines: update", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}

func HandleLineDelete(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := quotes.RemoveLine(e.Request.Context(), e.Request.PathValue("id"), e.Request.PathValue("lineId"))
		if err != nil {
			return respondError(e, "lines: delete", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}

func HandleLineDuplicate(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := quotes.DuplicateQuoteLine(e.Request.Context(), e.Request.PathValue("id"), e.Request.PathValue("lineId"))
		if err != nil {
			return respondError(e, "lines: duplicate", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}

// HandleLineMove moves a line one place; the body is {"direccion": "up"|"down"}.
func HandleLineMove(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Direction string `json:"direccion"`
		}
		if err := decodeJSON(e, &req); err != nil {
			return respondError(e, "lines: move", err)
		}
		q, err := quotes.MoveQuoteLine(e.Request.Context(), e.Request.PathValue("id"), e.Request.PathValue("lineId"), req.Direction)
		if err != nil {
			return respondError(e, "lines: move", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}

// HandleLineCharacteristic toggles and/or sets the value of one
// characteristic of a catalog line.
func HandleLineCharacteristic(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Enabled *bool `json:"activada"`
			Value   any   `json:"valor"`
		}
		if err := decodeJSON(e, &req); err != nil {
			return respondError(e, "lines: characteristic", err)
		}
		q, err := quotes.SetLineCharacteristic(e.Request.Context(),
			e.Request.PathValue("id"), e.Request.PathValue("lineId"), e.Request.PathValue("name"),
			req.Enabled, req.Value)
		if err != nil {
			return respondError(e, "lines: characteristic", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}
