package services

import (
	"testing"

	"quotebuilder/models"
)

func TestPriceOfCharacteristic(t *testing.T) {
	glass := testWindow().Selectable["cristal"]
	net := testWindow().Selectable["mosquitera"]
	colour := testWindow().Selectable["color"]

	tests := []struct {
		name   string
		spec   models.SelectableCharacteristicSpec
		value  models.Value
		expect float64
	}{
		{"select_matching_option", glass, models.TextValue("Triple"), 180},
		{"select_other_option", glass, models.TextValue("Doble"), 90},
		{"select_unknown_value_uses_base_price", glass, models.TextValue("Cuádruple"), 60},
		{"select_empty_value_uses_base_price", glass, models.TextValue(""), 60},
		{"select_number_value_uses_base_price", glass, models.NumberValue(3), 60},
		{"text_uses_base_price", net, models.TextValue("Enrollable"), 35},
		{"no_price_included", colour, models.TextValue("Blanco"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceOfCharacteristic(tt.spec, tt.value)
			if got != tt.expect {
				t.Errorf("PriceOfCharacteristic(%v) = %v, want %v", tt.value.Raw(), got, tt.expect)
			}
		})
	}

	t.Run("number_kind_uses_base_price", func(t *testing.T) {
		spec := models.SelectableCharacteristicSpec{Kind: models.KindNumber, IncludesPrice: true, BasePrice: 12.5}
		if got := PriceOfCharacteristic(spec, models.NumberValue(99)); got != 12.5 {
			t.Errorf("PriceOfCharacteristic(number) = %v, want 12.5", got)
		}
	})

	t.Run("not_included_ignores_options", func(t *testing.T) {
		spec := glass
		spec.IncludesPrice = false
		if got := PriceOfCharacteristic(spec, models.TextValue("Triple")); got != 0 {
			t.Errorf("PriceOfCharacteristic(not included) = %v, want 0", got)
		}
	})
}

func TestLineUnitPrice(t *testing.T) {
	p := testWindow()

	tests := []struct {
		name       string
		selectable map[string]models.CharacteristicValue
		expect     float64
	}{
		{"nothing_selected", nil, 300},
		{
			"stored_price_used",
			map[string]models.CharacteristicValue{
				"cristal": {Value: models.TextValue("Triple"), Price: models.Float(150), Enabled: models.Bool(true)},
			},
			450,
		},
		{
			"missing_price_recomputed",
			map[string]models.CharacteristicValue{
				"cristal": {Value: models.TextValue("Triple"), Enabled: models.Bool(true)},
			},
			480,
		},
		{
			"disabled_ignored",
			map[string]models.CharacteristicValue{
				"cristal":  {Value: models.TextValue("Triple"), Price: models.Float(180), Enabled: models.Bool(false)},
				"persiana": {Value: models.TextValue("Manual"), Price: models.Float(120)},
			},
			300,
		},
		{
			"several_enabled",
			map[string]models.CharacteristicValue{
				"cristal":    {Value: models.TextValue("Doble"), Price: models.Float(90), Enabled: models.Bool(true)},
				"mosquitera": {Value: models.TextValue("Enrollable"), Price: models.Float(35), Enabled: models.Bool(true)},
				"color":      {Value: models.TextValue("Blanco"), Enabled: models.Bool(true)},
			},
			425,
		},
		{
			"unknown_characteristic_without_price_skipped",
			map[string]models.CharacteristicValue{
				"retirada": {Value: models.TextValue("Sí"), Enabled: models.Bool(true)},
			},
			300,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineUnitPrice(p, tt.selectable)
			if got != tt.expect {
				t.Errorf("LineUnitPrice() = %v, want %v", got, tt.expect)
			}
		})
	}

	t.Run("no_base_price", func(t *testing.T) {
		noBase := p
		noBase.BasePrice = nil
		if got := LineUnitPrice(noBase, nil); got != 0 {
			t.Errorf("LineUnitPrice(no base) = %v, want 0", got)
		}
	})
}

func TestLineUnitPrice_DisabledPriceHasNoEffect(t *testing.T) {
	p := testWindow()
	for _, price := range []float64{0, 1, 180, 99999} {
		selectable := map[string]models.CharacteristicValue{
			"cristal": {Value: models.TextValue("Triple"), Price: models.Float(price), Enabled: models.Bool(false)},
		}
		if got := LineUnitPrice(p, selectable); got != 300 {
			t.Errorf("LineUnitPrice(disabled price %v) = %v, want 300", price, got)
		}
	}
}

func TestQuoteTotal(t *testing.T) {
	lines := []models.QuoteLine{
		{Quantity: 1, UnitPrice: 480},
		{Quantity: 1, UnitPrice: 220},
	}
	options := []models.GlobalOption{
		{Name: "Instalación", Price: 50, Enabled: true},
		{Name: "Retirada", Price: 80, Enabled: false},
	}

	t.Run("lines_and_enabled_options", func(t *testing.T) {
		if got := QuoteTotal(lines, options); got != 750 {
			t.Errorf("QuoteTotal() = %v, want 750", got)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		first := QuoteTotal(lines, options)
		second := QuoteTotal(lines, options)
		if first != second {
			t.Errorf("QuoteTotal() not idempotent: %v then %v", first, second)
		}
		if lines[0].UnitPrice != 480 || !options[0].Enabled {
			t.Error("QuoteTotal() modified its input")
		}
	})

	t.Run("quantity_multiplies", func(t *testing.T) {
		got := QuoteTotal([]models.QuoteLine{{Quantity: 3, UnitPrice: 19.99}}, nil)
		if got != 59.97 {
			t.Errorf("QuoteTotal(3 x 19.99) = %v, want 59.97", got)
		}
	})

	t.Run("no_float_drift", func(t *testing.T) {
		got := QuoteTotal([]models.QuoteLine{{Quantity: 1, UnitPrice: 0.1}, {Quantity: 1, UnitPrice: 0.2}}, nil)
		if got != 0.3 {
			t.Errorf("QuoteTotal(0.1 + 0.2) = %v, want 0.3", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := QuoteTotal(nil, nil); got != 0 {
			t.Errorf("QuoteTotal(nil, nil) = %v, want 0", got)
		}
	})
}

func TestScenario_TripleGlassWindow(t *testing.T) {
	line := windowLine(t, map[string]string{"cristal": "Triple"})

	if line.UnitPrice != 480 {
		t.Fatalf("unit price with triple glass = %v, want 480", line.UnitPrice)
	}
	if got := LineTotal(line); got != 480 {
		t.Errorf("line total = %v, want 480", got)
	}

	off, err := SetCharacteristicEnabled(testWindow(), line, "cristal", false)
	if err != nil {
		t.Fatalf("SetCharacteristicEnabled(false): %v", err)
	}
	if off.UnitPrice != 300 {
		t.Errorf("unit price after disabling glass = %v, want 300", off.UnitPrice)
	}
	if got := QuoteTotal([]models.QuoteLine{off}, nil); got != 300 {
		t.Errorf("total after disabling glass = %v, want 300", got)
	}
	if got := off.Selectable["cristal"].Value.Text(); got != "Triple" {
		t.Errorf("disabled glass value = %q, want Triple retained", got)
	}
}

func TestScenario_QuoteWithOption(t *testing.T) {
	q := models.Quote{
		Lines: []models.QuoteLine{
			windowLine(t, map[string]string{"cristal": "Triple"}),
			{Kind: models.LineCustom, Quantity: 1, UnitPrice: 220},
		},
		GlobalOptions: []models.GlobalOption{{Name: "Instalación", Price: 50, Enabled: true}},
	}
	RecalculateQuote(&q)
	if q.Total != 750 {
		t.Errorf("quote total = %v, want 750", q.Total)
	}
	if derived, ok := VerifyTotal(q); !ok {
		t.Errorf("VerifyTotal() = %v, false; want match", derived)
	}

	q.Total = 700
	if derived, ok := VerifyTotal(q); ok || derived != 750 {
		t.Errorf("VerifyTotal(stale) = %v, %v; want 750, false", derived, ok)
	}
}
