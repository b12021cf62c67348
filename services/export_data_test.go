package services

import (
	"reflect"
	"testing"
	"time"

	"quotebuilder/models"
)

// exportQuote is version 2 of a sent quote: two windows with triple glazing,
// a custom line and one enabled option.
func exportQuote(t *testing.T) models.Quote {
	t.Helper()
	window := windowLine(t, map[string]string{"cristal": "Triple"})
	window.Reference = "V-01"
	window.Quantity = 2

	client := testClient
	q := models.Quote{
		ID:             "q1",
		Number:         "20250635",
		Version:        2,
		Date:           time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
		ClientID:       client.ID,
		Client:         client.DisplayName(),
		ClientSnapshot: &client,
		Lines:          []models.QuoteLine{window, customLine("Portes", 40)},
		GlobalOptions: []models.GlobalOption{
			{ID: "o1", Name: "Instalación", Description: "Montaje en obra", Price: 50, Enabled: true},
			{ID: "o2", Name: "Retirada", Price: 30},
		},
		Status: models.StatusSent,
	}
	RecalculateQuote(&q)
	return q
}

func TestBuildExportData(t *testing.T) {
	data := BuildExportData(exportQuote(t), testProducts())

	t.Run("header", func(t *testing.T) {
		if data.Title != "Presupuesto 20250635" || data.Version != 2 || data.Date != "01/03/2025" || data.Status != "Enviado" {
			t.Errorf("header = %q v%d %q %q", data.Title, data.Version, data.Date, data.Status)
		}
		if data.ClientName != "Ana García" || data.ClientTaxID != "12345678Z" || data.ClientAddr != "Calle Mayor 1" {
			t.Errorf("client = %q %q %q", data.ClientName, data.ClientTaxID, data.ClientAddr)
		}
	})

	t.Run("rows", func(t *testing.T) {
		want := []ExportRow{
			{Index: "1", Description: "Ventana", Reference: "V-01", Qty: 2, UnitPrice: 480, Amount: 960},
			{Level: 1, Index: "1.1", Description: "Ancho: 400"},
			{Level: 1, Index: "1.2", Description: "Material: PVC"},
			{Level: 1, Index: "1.3", Description: "Cristal: Triple (+180,00 €)", UnitPrice: 180},
			{Index: "2", Description: "Portes", Qty: 1, UnitPrice: 40, Amount: 40},
		}
		if !reflect.DeepEqual(data.Rows, want) {
			t.Errorf("Rows =\n%+v\nwant\n%+v", data.Rows, want)
		}
	})

	t.Run("enabled_options_only", func(t *testing.T) {
		want := []ExportRow{{Index: "O1", Description: "Instalación - Montaje en obra", Qty: 1, UnitPrice: 50, Amount: 50}}
		if !reflect.DeepEqual(data.Options, want) {
			t.Errorf("Options = %+v, want %+v", data.Options, want)
		}
	})

	t.Run("totals", func(t *testing.T) {
		if data.LinesTotal != 1000 || data.OptionsTotal != 50 || data.Total != 1050 {
			t.Errorf("totals = %v + %v = %v, want 1000 + 50 = 1050", data.LinesTotal, data.OptionsTotal, data.Total)
		}
	})

	t.Run("unknown_product_uses_names", func(t *testing.T) {
		data := BuildExportData(exportQuote(t), nil)
		if got := data.Rows[1].Description; got != "ancho: 400" {
			t.Errorf("Rows[1] = %q, want ancho: 400", got)
		}
	})
}
