package services

import (
	"fmt"
	"strconv"

	"quotebuilder/models"
)

// ExportRow is one row of a quote export: a line (level 0) or one of its
// characteristics (level 1).
type ExportRow struct {
	Level       int    // 0 = line or option, 1 = characteristic of the line above
	Index       string // "1", "1.1", "O1"...
	Description string
	Reference   string
	Qty         int
	UnitPrice   float64
	Amount      float64
}

// ExportData holds everything the Excel and PDF generators print.
type ExportData struct {
	Title        string
	Number       string
	Version      int
	Date         string
	Status       string
	ClientName   string
	ClientTaxID  string
	ClientAddr   string
	Rows         []ExportRow
	Options      []ExportRow
	LinesTotal   float64
	OptionsTotal float64
	Total        float64
}

var statusLabels = map[models.QuoteStatus]string{
	models.StatusDraft:    "Borrador",
	models.StatusSent:     "Enviado",
	models.StatusAccepted: "Aceptado",
	models.StatusRejected: "Rechazado",
}

// BuildExportData flattens one version of a quote into export rows.
// products supplies characteristic labels; missing products fall back to
// the characteristic names. Only enabled options are listed.
func BuildExportData(q models.Quote, products map[string]models.ProductDefinition) ExportData {
	data := ExportData{
		Title:   "Presupuesto " + q.Number,
		Number:  q.Number,
		Version: q.Version,
		Date:    q.Date.Format("02/01/2006"),
		Status:  statusLabels[q.Status],
	}
	if data.Status == "" {
		data.Status = string(q.Status)
	}

	data.ClientName = q.Client
	if c := q.ClientSnapshot; c != nil {
		data.ClientName = c.DisplayName()
		data.ClientTaxID = c.TaxID
		data.ClientAddr = c.Address
	}

	for i, l := range q.Lines {
		idx := strconv.Itoa(i + 1)
		data.Rows = append(data.Rows, ExportRow{
			Index:       idx,
			Description: l.Product.Name,
			Reference:   l.Reference,
			Qty:         l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      LineTotal(l),
		})

		product, known := products[l.Product.ID]
		sub := 0
		for _, name := range sortedKeys(l.Permanent) {
			label := name
			if spec, ok := product.Permanent[name]; known && ok {
				label = spec.Label
			}
			sub++
			data.Rows = append(data.Rows, ExportRow{
				Level:       1,
				Index:       fmt.Sprintf("%s.%d", idx, sub),
				Description: fmt.Sprintf("%s: %s", label, l.Permanent[name].Value.Text()),
			})
		}
		for _, name := range sortedKeys(l.Selectable) {
			cv := l.Selectable[name]
			if !cv.IsEnabled() {
				continue
			}
			label := name
			if spec, ok := product.Selectable[name]; known && ok {
				label = spec.Label
			}
			desc := fmt.Sprintf("%s: %s", label, cv.Value.Text())
			var price float64
			if cv.Price != nil && *cv.Price != 0 {
				price = *cv.Price
				desc += " (+" + FormatEUR(price) + ")"
			}
			sub++
			data.Rows = append(data.Rows, ExportRow{
				Level:       1,
				Index:       fmt.Sprintf("%s.%d", idx, sub),
				Description: desc,
				UnitPrice:   price,
			})
		}
	}

	n := 0
	for _, o := range q.GlobalOptions {
		if !o.Enabled {
			continue
		}
		n++
		desc := o.Name
		if o.Description != "" {
			desc += " - " + o.Description
		}
		data.Options = append(data.Options, ExportRow{
			Index:       fmt.Sprintf("O%d", n),
			Description: desc,
			Qty:         1,
			UnitPrice:   o.Price,
			Amount:      o.Price,
		})
	}

	data.OptionsTotal = OptionsTotal(q.GlobalOptions)
	data.LinesTotal = QuoteTotal(q.Lines, nil)
	data.Total = q.Total
	return data
}
