package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
)

// HandleProductList returns id and name of every catalog product.
func HandleProductList(catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		products, err := catalog.ListProducts(e.Request.Context())
		if err != nil {
			return respondError(e, "products: list", err)
		}
		return e.JSON(http.StatusOK, products)
	}
}

// HandleProductGet returns the full definition of one product.
func HandleProductGet(catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := catalog.GetProduct(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "products: get", err)
		}
		return e.JSON(http.StatusOK, p)
	}
}

func HandleProductCreate(catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.ProductInput
		if err := decodeJSON(e, &in); err != nil {
			return respondError(e, "products: create", err)
		}
		p, err := catalog.CreateProduct(e.Request.Context(), in)
		if err != nil {
			return respondError(e, "products: create", err)
		}
		return e.JSON(http.StatusCreated, p)
	}
}

func HandleProductUpdate(catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.ProductInput
		if err := decodeJSON(e, &in); err != nil {
			return respondError(e, "products: update", err)
		}
		p, err := catalog.UpdateProduct(e.Request.Context(), e.Request.PathValue("id"), in)
		if err != nil {
			return respondError(e, "products: update", err)
		}
		return e.JSON(http.StatusOK, p)
	}
}

func HandleProductDelete(catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := catalog.DeleteProduct(e.Request.Context(), e.Request.PathValue("id")); err != nil {
			return respondError(e, "products: delete", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleCharacteristicUpsert adds or replaces one characteristic. The
// section comes from the ?section= query parameter.
func HandleCharacteristicUpsert(catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var spec services.CharacteristicSpec
		if err := decodeJSON(e, &spec); err != nil {
			return respondError(e, "products: characteristic", err)
		}
		section := services.Section(e.Request.URL.Query().Get("section"))
		p, err := catalog.UpsertCharacteristic(e.Request.Context(),
			e.Request.PathValue("id"), e.Request.PathValue("name"), spec, section)
		if err != nil {
			return respondError(e, "products: characteristic", err)
		}
		return e.JSON(http.StatusOK, p)
	}
}

func HandleCharacteristicDelete(catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		err := catalog.RemoveCharacteristic(e.Request.Context(), e.Request.PathValue("id"), e.Request.PathValue("name"))
		if err != nil {
			return respondError(e, "products: characteristic", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}
