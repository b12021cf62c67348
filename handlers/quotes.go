package handlers

import (
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/models"
	"quotebuilder/services"
)

// HandleQuoteList returns the live record of every quote.
func HandleQuoteList(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, err := quotes.List(e.Request.Context())
		if err != nil {
			return respondError(e, "quotes: list", err)
		}
		return e.JSON(http.StatusOK, list)
	}
}

func HandleQuoteGet(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := quotes.Get(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "quotes: get", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}

// HandleQuoteCreate creates version 1 of a quote and assigns its number.
func HandleQuoteCreate(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.QuoteInput
		if err := decodeJSON(e, &in); err != nil {
			return respondError(e, "quotes: create", err)
		}
		q, err := quotes.Create(e.Request.Context(), in)
		if err != nil {
			return respondError(e, "quotes: create", err)
		}
		return e.JSON(http.StatusCreated, q)
	}
}

// HandleQuoteReplace overwrites the editable content of the live version.
func HandleQuoteReplace(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.QuoteInput
		if err := decodeJSON(e, &in); err != nil {
			return respondError(e, "quotes: replace", err)
		}
		q, err := quotes.Replace(e.Request.Context(), e.Request.PathValue("id"), in)
		if err != nil {
			return respondError(e, "quotes: replace", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}

func HandleQuoteDelete(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := quotes.Delete(e.Request.Context(), e.Request.PathValue("id")); err != nil {
			return respondError(e, "quotes: delete", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}

func HandleQuoteStatus(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Status models.QuoteStatus `json:"estado"`
		}
		if err := decodeJSON(e, &req); err != nil {
			return respondError(e, "quotes: status", err)
		}
		q, err := quotes.SetStatus(e.Request.Context(), e.Request.PathValue("id"), req.Status)
		if err != nil {
			return respondError(e, "quotes: status", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}

// HandleQuoteRefreshPrices reprices the catalog lines of the live version
// after catalog edits.
func HandleQuoteRefreshPrices(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := quotes.RefreshPrices(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "quotes: refresh prices", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}

// HandleVersionList lists the history of a quote, live version last.
func HandleVersionList(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := quotes.Get(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "versions: list", err)
		}
		return e.JSON(http.StatusOK, services.Versions(q))
	}
}

// HandleVersionCreate freezes the live version and starts the next one.
func HandleVersionCreate(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := quotes.CreateNewVersion(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "versions: create", err)
		}
		return e.JSON(http.StatusCreated, q)
	}
}

func HandleVersionGet(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		n, err := versionParam(e)
		if err != nil {
			return respondError(e, "versions: get", err)
		}
		q, err := quotes.GetVersion(e.Request.Context(), e.Request.PathValue("id"), n)
		if err != nil {
			return respondError(e, "versions: get", err)
		}
		return e.JSON(http.StatusOK, q)
	}
}

// HandleStats returns the dashboard summary. ?top=N limits the product
// ranking and defaults to 5.
func HandleStats(quotes *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		top := 5
		if raw := e.Request.URL.Query().Get("top"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return respondError(e, "stats", &services.ValidationError{Messages: []string{"top: must be a whole number"}})
			}
			top = n
		}
		stats, err := quotes.Stats(e.Request.Context(), top)
		if err != nil {
			return respondError(e, "stats", err)
		}
		return e.JSON(http.StatusOK, stats)
	}
}
