package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"quotebuilder/models"
	"quotebuilder/store"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// testWindow is a window priced at 300 with every selectable characteristic
// off by default.
func testWindow() models.ProductDefinition {
	return models.ProductDefinition{
		ID:        "ventana",
		Name:      "Ventana",
		BasePrice: models.Float(300),
		Permanent: map[string]models.PermanentCharacteristicSpec{
			"material": {Label: "Material", Kind: models.KindSelect, Options: []string{"PVC", "Aluminio"}},
			"ancho":    {Label: "Ancho", Kind: models.KindNumber, Min: models.Float(400), Max: models.Float(3000)},
		},
		Selectable: map[string]models.SelectableCharacteristicSpec{
			"cristal": {
				Label: "Cristal", Kind: models.KindSelect, IncludesPrice: true, BasePrice: 60,
				Options: []models.PriceOption{{Value: "Doble", Price: 90}, {Value: "Triple", Price: 180}},
			},
			"persiana": {
				Label: "Persiana", Kind: models.KindSelect, IncludesPrice: true, BasePrice: 100,
				Options: []models.PriceOption{{Value: "Manual", Price: 120}, {Value: "Motorizada", Price: 250}},
			},
			"apertura": {
				Label: "Apertura", Kind: models.KindSelect, IncludesPrice: true,
				Options: []models.PriceOption{{Value: "Abatible", Price: 0}, {Value: "Oscilobatiente", Price: 45}},
			},
			"mosquitera": {Label: "Mosquitera", Kind: models.KindText, IncludesPrice: true, BasePrice: 35},
			"color":      {Label: "Color", Kind: models.KindText},
		},
	}
}

// testDoor is a door with one selectable characteristic enabled by default.
func testDoor() models.ProductDefinition {
	return models.ProductDefinition{
		ID:        "puerta",
		Name:      "Puerta",
		BasePrice: models.Float(200),
		Permanent: map[string]models.PermanentCharacteristicSpec{
			"alto": {Label: "Alto", Kind: models.KindNumber, Min: models.Float(1800), Max: models.Float(2400)},
		},
		Selectable: map[string]models.SelectableCharacteristicSpec{
			"cerradura": {
				Label: "Cerradura", Kind: models.KindSelect, IncludesPrice: true, EnabledByDefault: true,
				Options: []models.PriceOption{{Value: "Simple", Price: 20}, {Value: "Seguridad", Price: 75}},
			},
		},
	}
}

func testProducts() map[string]models.ProductDefinition {
	return map[string]models.ProductDefinition{
		"ventana": testWindow(),
		"puerta":  testDoor(),
	}
}

var testClient = models.Client{
	ID:      "c1",
	Name:    "Ana",
	Surname: "García",
	TaxID:   "12345678Z",
	Address: "Calle Mayor 1",
	Type:    models.ClientPrivate,
}

// newTestStore returns a FileStore in a temp dir holding the test catalog
// and one client.
func newTestStore(t *testing.T) *store.FileStore {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	if err := st.SaveProducts(ctx, testProducts()); err != nil {
		t.Fatalf("SaveProducts: %v", err)
	}
	if err := st.SaveClients(ctx, []models.Client{testClient}); err != nil {
		t.Fatalf("SaveClients: %v", err)
	}
	return st
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(time.Minute)
		return t
	}
}

// windowLine builds a catalog line for testWindow with the given
// selectable values enabled.
func windowLine(t *testing.T, enabled map[string]string) models.QuoteLine {
	t.Helper()
	p := testWindow()
	line, err := CreateLine(models.LineExisting, &p, LineInput{Quantity: 1})
	if err != nil {
		t.Fatalf("CreateLine: %v", err)
	}
	for _, name := range sortedKeys(enabled) {
		if line, err = SetCharacteristicEnabled(p, line, name, true); err != nil {
			t.Fatalf("SetCharacteristicEnabled(%s): %v", name, err)
		}
		if enabled[name] != "" {
			if line, err = SetCharacteristicValue(p, line, name, enabled[name]); err != nil {
				t.Fatalf("SetCharacteristicValue(%s): %v", name, err)
			}
		}
	}
	return line
}
