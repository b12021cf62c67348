package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/models"
	"quotebuilder/services"
)

func HandleClientList(clients *services.ClientService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, err := clients.List(e.Request.Context())
		if err != nil {
			return respondError(e, "clients: list", err)
		}
		return e.JSON(http.StatusOK, list)
	}
}

func HandleClientGet(clients *services.ClientService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c, err := clients.Get(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "clients: get", err)
		}
		return e.JSON(http.StatusOK, c)
	}
}

func HandleClientCreate(clients *services.ClientService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in models.Client
		if err := decodeJSON(e, &in); err != nil {
			return respondError(e, "clients: create", err)
		}
		c, err := clients.Create(e.Request.Context(), in)
		if err != nil {
			return respondError(e, "clients: create", err)
		}
		return e.JSON(http.StatusCreated, c)
	}
}

// HandleClientUpdate edits a client record. Quotes already issued keep the
// copy they took when they were created.
func HandleClientUpdate(clients *services.ClientService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in models.Client
		if err := decodeJSON(e, &in); err != nil {
			return respondError(e, "clients: update", err)
		}
		c, err := clients.Update(e.Request.Context(), e.Request.PathValue("id"), in)
		if err != nil {
			return respondError(e, "clients: update", err)
		}
		return e.JSON(http.StatusOK, c)
	}
}

func HandleClientDelete(clients *services.ClientService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := clients.Delete(e.Request.Context(), e.Request.PathValue("id")); err != nil {
			return respondError(e, "clients: delete", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}
