package handlers

import (
	"errors"
	"log"
	"mime"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/models"
	"quotebuilder/services"
	"quotebuilder/templates"
)

// HandleCustomerPage renders the page a customer uses to review a quote and
// pick its optional extras.
func HandleCustomerPage(quotes *services.QuoteService, catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := quotes.Get(e.Request.Context(), e.Request.PathValue("id"))
		if errors.Is(err, services.ErrNotFound) {
			return e.String(http.StatusNotFound, "Presupuesto no encontrado")
		}
		if err != nil {
			log.Printf("customer: load quote: %v", err)
			return e.String(http.StatusInternalServerError, "Error al cargar el presupuesto")
		}
		products, err := catalog.Products(e.Request.Context())
		if err != nil {
			log.Printf("customer: load products: %v", err)
			return e.String(http.StatusInternalServerError, "Error al cargar el presupuesto")
		}

		data := templates.CustomerQuoteData{Quote: q, Products: products}
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return templates.CustomerQuotePage(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleCustomerSelections saves the customer's toggles. A JSON body
// carries explicit CustomerSelections and gets the quote back as JSON; a
// form post from the customer page sets every toggle from its checkbox and
// gets the re-rendered quote body.
func HandleCustomerSelections(quotes *services.QuoteService, catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ctx := e.Request.Context()
		id := e.Request.PathValue("id")

		if isJSON(e.Request) {
			var sel services.CustomerSelections
			if err := decodeJSON(e, &sel); err != nil {
				return respondError(e, "customer: selections", err)
			}
			q, err := quotes.ApplyCustomerSelections(ctx, id, sel)
			if err != nil {
				return respondError(e, "customer: selections", err)
			}
			return e.JSON(http.StatusOK, q)
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos del formulario no válidos")
		}
		current, err := quotes.Get(ctx, id)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Presupuesto no encontrado")
			}
			log.Printf("customer: load quote: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar la selección")
		}
		products, err := catalog.Products(ctx)
		if err != nil {
			log.Printf("customer: load products: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar la selección")
		}

		sel := selectionsFromForm(e.Request, current, products)
		q, err := quotes.ApplyCustomerSelections(ctx, id, sel)
		if err != nil {
			var ve *services.ValidationError
			if errors.As(err, &ve) {
				return ErrorToast(e, http.StatusBadRequest, "Selección no válida")
			}
			log.Printf("customer: apply selections: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar la selección")
		}

		SetToast(e, "success", "Selección guardada")
		data := templates.CustomerQuoteData{Quote: q, Products: products, Saved: true}
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return templates.CustomerQuoteBody(data).Render(ctx, e.Response)
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// selectionsFromForm reads the checkboxes of the customer page. An
// unchecked box is absent from the form, so every toggle shown on the page
// is set explicitly.
func selectionsFromForm(r *http.Request, q models.Quote, products map[string]models.ProductDefinition) services.CustomerSelections {
	sel := services.CustomerSelections{
		Lines:   map[string]map[string]bool{},
		Options: map[string]bool{},
	}
	for _, l := range q.Lines {
		p, ok := products[l.Product.ID]
		if l.Kind != models.LineExisting || !ok || len(p.Selectable) == 0 {
			continue
		}
		toggles := make(map[string]bool, len(p.Selectable))
		for name := range p.Selectable {
			_, checked := r.PostForm[templates.LineField(l.ID, name)]
			toggles[name] = checked
		}
		sel.Lines[l.ID] = toggles
	}
	for _, o := range q.GlobalOptions {
		_, checked := r.PostForm[templates.OptionField(o.ID)]
		sel.Options[o.ID] = checked
	}
	return sel
}
