package services

import (
	"reflect"
	"testing"
	"time"

	"quotebuilder/models"
)

func legacyWindowLine() models.QuoteLine {
	return models.QuoteLine{
		ID:        "l1",
		Kind:      models.LineExisting,
		Product:   models.ProductRef{ID: "ventana", Name: "Ventana"},
		Quantity:  2,
		UnitPrice: 360,
		LegacyCharacteristics: map[string]any{
			"material": "Aluminio",
			"ancho":    "1200",
			"cristal":  "Triple",
			"marco":    "Lacado",
		},
	}
}

func TestMigrateLegacyLine(t *testing.T) {
	p := testWindow()

	t.Run("splits_by_product_sections", func(t *testing.T) {
		line, report := MigrateLegacyLine(&p, legacyWindowLine())

		if line.IsLegacy() || line.LegacyCharacteristics != nil {
			t.Fatal("line still has the legacy shape")
		}
		if got := line.Permanent["material"]; got.Value.Text() != "Aluminio" || !got.IsEnabled() || got.Price != nil {
			t.Errorf("material = %+v, want enabled Aluminio without price", got)
		}
		if n, ok := line.Permanent["ancho"].Value.Number(); !ok || !line.Permanent["ancho"].Value.IsNumber() || n != 1200 {
			t.Errorf("ancho = %#v, want number 1200", line.Permanent["ancho"].Value)
		}
		glass := line.Selectable["cristal"]
		if glass.Value.Text() != "Triple" || !glass.IsEnabled() || glass.Price == nil || *glass.Price != 60 {
			t.Errorf("cristal = %+v, want enabled Triple at base price 60", glass)
		}
		if !reflect.DeepEqual(report.Dropped, []string{"marco"}) {
			t.Errorf("Dropped = %q, want [marco]", report.Dropped)
		}
		if line.UnitPrice != 360 || line.Quantity != 2 {
			t.Errorf("price %v qty %d changed by migration", line.UnitPrice, line.Quantity)
		}
	})

	t.Run("input_untouched", func(t *testing.T) {
		in := legacyWindowLine()
		MigrateLegacyLine(&p, in)
		if len(in.LegacyCharacteristics) != 4 || in.Permanent != nil {
			t.Error("MigrateLegacyLine modified its input")
		}
	})

	t.Run("legacy_new_becomes_custom", func(t *testing.T) {
		in := models.QuoteLine{
			ID:                    "l2",
			Kind:                  models.LineLegacyNew,
			Quantity:              1,
			UnitPrice:             90,
			LegacyDescription:     "Reja de seguridad",
			LegacyCharacteristics: map[string]any{"medida": "100x120", "acabado": "negro"},
		}
		line, report := MigrateLegacyLine(nil, in)
		if line.Kind != models.LineCustom || line.Product.ID != models.CustomProductID {
			t.Errorf("kind %s product %s, want custom", line.Kind, line.Product.ID)
		}
		if line.Product.Name != "Reja de seguridad" || line.LegacyDescription != "" {
			t.Errorf("name = %q, description = %q", line.Product.Name, line.LegacyDescription)
		}
		if !reflect.DeepEqual(report.Dropped, []string{"acabado", "medida"}) {
			t.Errorf("Dropped = %q, want [acabado medida]", report.Dropped)
		}
		if line.IsLegacy() {
			t.Error("line still legacy")
		}
	})

	t.Run("unknown_product_drops_everything", func(t *testing.T) {
		in := legacyWindowLine()
		in.Kind = ""
		in.Product = models.ProductRef{ID: "armario", Name: "Armario"}
		line, report := MigrateLegacyLine(nil, in)
		if line.Kind != models.LineExisting {
			t.Errorf("Kind = %q, want existente", line.Kind)
		}
		if len(report.Dropped) != 4 {
			t.Errorf("Dropped = %q, want all four", report.Dropped)
		}
	})

	t.Run("current_shape_unchanged", func(t *testing.T) {
		in := windowLine(t, map[string]string{"cristal": "Doble"})
		line, report := MigrateLegacyLine(&p, in)
		if !reflect.DeepEqual(line, in) || len(report.Dropped) != 0 {
			t.Error("a migrated line was changed again")
		}
	})
}

func TestMigrateLegacyQuote(t *testing.T) {
	products := testProducts()
	prior := models.Quote{
		ID:            "q1",
		Number:        "20240640",
		Version:       1,
		Date:          time.Date(2024, time.November, 3, 0, 0, 0, 0, time.UTC),
		Lines:         []models.QuoteLine{legacyWindowLine()},
		Status:        models.StatusSent,
		PriorVersions: []models.Quote{},
	}
	q := prior
	q.Version = 2
	q.Lines = []models.QuoteLine{
		legacyWindowLine(),
		{ID: "l2", Kind: models.LineLegacyNew, Quantity: 1, UnitPrice: 90, LegacyDescription: "Reja"},
	}
	q.PriorVersions = []models.Quote{prior}

	migrated, reports, changed := MigrateLegacyQuote(q, products)
	if !changed {
		t.Fatal("changed = false for a legacy quote")
	}

	t.Run("live_and_history_migrated", func(t *testing.T) {
		for _, l := range migrated.Lines {
			if l.IsLegacy() {
				t.Errorf("live line %s still legacy", l.ID)
			}
		}
		if migrated.PriorVersions[0].Lines[0].IsLegacy() {
			t.Error("prior version line still legacy")
		}
	})

	t.Run("reports_name_version", func(t *testing.T) {
		if len(reports) != 2 {
			t.Fatalf("got %d reports, want 2: %v", len(reports), reports)
		}
		if reports[0].Version != 1 || reports[1].Version != 2 || reports[0].QuoteID != "q1" {
			t.Errorf("reports = %v", reports)
		}
		want := "quote q1 v1 line l1: dropped [marco]"
		if got := reports[0].String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})

	t.Run("input_untouched", func(t *testing.T) {
		if !q.Lines[0].IsLegacy() || !q.PriorVersions[0].Lines[0].IsLegacy() {
			t.Error("MigrateLegacyQuote modified its input")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		again, reports, changed := MigrateLegacyQuote(migrated, products)
		if changed || len(reports) != 0 {
			t.Errorf("second run changed=%v reports=%v, want no change", changed, reports)
		}
		if !sameJSON(again, migrated) {
			t.Error("second run altered the quote")
		}
	})
}
