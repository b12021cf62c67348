package services

import (
	"fmt"
	"slices"
	"strconv"

	"quotebuilder/models"
)

// seedPermanent returns the starting value of a permanent characteristic:
// the first option, the lower bound (or 0) for numbers, empty text otherwise.
func seedPermanent(spec models.PermanentCharacteristicSpec) models.Value {
	switch spec.Kind {
	case models.KindSelect:
		if len(spec.Options) > 0 {
			return models.TextValue(spec.Options[0])
		}
	case models.KindNumber:
		return models.NumberValue(lowerBound(spec.Min))
	}
	return models.TextValue("")
}

// seedSelectable is seedPermanent for selectable characteristics.
func seedSelectable(spec models.SelectableCharacteristicSpec) models.Value {
	switch spec.Kind {
	case models.KindSelect:
		if len(spec.Options) > 0 {
			return models.TextValue(spec.Options[0].Value)
		}
	case models.KindNumber:
		return models.NumberValue(lowerBound(spec.Min))
	}
	return models.TextValue("")
}

func lowerBound(min *float64) float64 {
	if min == nil {
		return 0
	}
	return *min
}

// selectablePrice is the stored price of an enabled characteristic. It is
// nil when the characteristic does not include a price.
func selectablePrice(spec models.SelectableCharacteristicSpec, v models.Value) *float64 {
	if !spec.IncludesPrice {
		return nil
	}
	return models.Float(PriceOfCharacteristic(spec, v))
}

// DefaultCharacteristicValues builds the characteristic values of a fresh
// line for product. Permanent characteristics are always enabled;
// selectable ones start as the catalog says.
func DefaultCharacteristicValues(product models.ProductDefinition) (permanent, selectable map[string]models.CharacteristicValue) {
	permanent = make(map[string]models.CharacteristicValue, len(product.Permanent))
	for name, spec := range product.Permanent {
		permanent[name] = models.CharacteristicValue{
			Value:   seedPermanent(spec),
			Enabled: models.Bool(true),
		}
	}

	selectable = make(map[string]models.CharacteristicValue, len(product.Selectable))
	for name, spec := range product.Selectable {
		v := seedSelectable(spec)
		cv := models.CharacteristicValue{
			Value:   v,
			Enabled: models.Bool(spec.EnabledByDefault),
		}
		if spec.EnabledByDefault {
			cv.Price = selectablePrice(spec, v)
		}
		selectable[name] = cv
	}
	return permanent, selectable
}

// SetCharacteristicEnabled toggles a selectable characteristic on a catalog
// line. Enabling a characteristic with no value seeds it from the catalog.
// Disabling keeps the value and clears the price. The line unit price is
// recomputed when the state changes; a toggle to the current state returns
// the line as it was, manual price included. The input line is not
// modified.
func SetCharacteristicEnabled(product models.ProductDefinition, line models.QuoteLine, name string, enabled bool) (models.QuoteLine, error) {
	if err := checkLineProduct(product, line); err != nil {
		return models.QuoteLine{}, err
	}
	spec, ok := product.Selectable[name]
	if !ok {
		return models.QuoteLine{}, notFound("selectable characteristic", name)
	}

	out, err := cloneLine(line)
	if err != nil {
		return models.QuoteLine{}, err
	}
	if out.Selectable == nil {
		out.Selectable = map[string]models.CharacteristicValue{}
	}

	cv, exists := out.Selectable[name]
	if exists && cv.IsEnabled() == enabled && (!enabled || !cv.Value.IsEmpty()) {
		return out, nil
	}
	if enabled {
		if !exists || cv.Value.IsEmpty() {
			cv.Value = seedSelectable(spec)
		}
		cv.Price = selectablePrice(spec, cv.Value)
	} else {
		cv.Price = nil
	}
	cv.Enabled = models.Bool(enabled)
	out.Selectable[name] = cv

	reprice(product, &out)
	return out, nil
}

// SetCharacteristicValue assigns a new value to a characteristic of a
// catalog line. The value is coerced to the declared kind and checked
// against the catalog. Permanent characteristics are looked up first.
// For an enabled selectable characteristic the price is re-derived and the
// line unit price recomputed.
func SetCharacteristicValue(product models.ProductDefinition, line models.QuoteLine, name string, raw any) (models.QuoteLine, error) {
	if err := checkLineProduct(product, line); err != nil {
		return models.QuoteLine{}, err
	}

	out, err := cloneLine(line)
	if err != nil {
		return models.QuoteLine{}, err
	}

	if spec, ok := product.Permanent[name]; ok {
		v, err := models.ValueFor(spec.Kind, raw)
		if err != nil {
			return models.QuoteLine{}, invalid(fmt.Sprintf("%s: %v", spec.Label, err))
		}
		if msgs := checkPermanent(spec, v); len(msgs) > 0 {
			return models.QuoteLine{}, invalid(msgs...)
		}
		if out.Permanent == nil {
			out.Permanent = map[string]models.CharacteristicValue{}
		}
		out.Permanent[name] = models.CharacteristicValue{Value: v, Enabled: models.Bool(true)}
		return out, nil
	}

	spec, ok := product.Selectable[name]
	if !ok {
		return models.QuoteLine{}, notFound("characteristic", name)
	}
	v, err := models.ValueFor(spec.Kind, raw)
	if err != nil {
		return models.QuoteLine{}, invalid(fmt.Sprintf("%s: %v", spec.Label, err))
	}
	if msgs := checkSelectable(spec, v); len(msgs) > 0 {
		return models.QuoteLine{}, invalid(msgs...)
	}
	if out.Selectable == nil {
		out.Selectable = map[string]models.CharacteristicValue{}
	}
	cv := out.Selectable[name]
	cv.Value = v
	if cv.IsEnabled() {
		cv.Price = selectablePrice(spec, v)
	}
	if cv.Enabled == nil {
		cv.Enabled = models.Bool(false)
	}
	out.Selectable[name] = cv

	reprice(product, &out)
	return out, nil
}

// RefreshSelectablePrices re-derives the stored price of every enabled
// selectable characteristic from the current catalog and recomputes the
// unit price. Values no longer among the options fall back to the base
// price.
func RefreshSelectablePrices(product models.ProductDefinition, line models.QuoteLine) (models.QuoteLine, error) {
	out, err := cloneLine(line)
	if err != nil {
		return models.QuoteLine{}, err
	}
	for name, cv := range out.Selectable {
		spec, ok := product.Selectable[name]
		if !ok || !cv.IsEnabled() {
			continue
		}
		cv.Price = selectablePrice(spec, cv.Value)
		out.Selectable[name] = cv
	}
	reprice(product, &out)
	return out, nil
}

// ValidateCharacteristics checks the characteristic values of a catalog
// line. Every permanent characteristic is required and must fit its
// options or bounds; enabled select characteristics must hold one of their
// options. It returns one message per problem, in a stable order.
func ValidateCharacteristics(product models.ProductDefinition, permanent, selectable map[string]models.CharacteristicValue) []string {
	var msgs []string

	for _, name := range sortedKeys(product.Permanent) {
		spec := product.Permanent[name]
		cv, ok := permanent[name]
		if !ok || cv.Value.IsEmpty() {
			msgs = append(msgs, fmt.Sprintf("%s is required", spec.Label))
			continue
		}
		msgs = append(msgs, checkPermanent(spec, cv.Value)...)
	}

	for _, name := range sortedKeys(selectable) {
		cv := selectable[name]
		if !cv.IsEnabled() {
			continue
		}
		spec, ok := product.Selectable[name]
		if !ok {
			continue
		}
		if spec.Kind == models.KindSelect && len(spec.Options) > 0 {
			if _, ok := spec.Option(cv.Value.Text()); !ok {
				msgs = append(msgs, fmt.Sprintf("%s: invalid option", spec.Label))
			}
		}
	}
	return msgs
}

func checkPermanent(spec models.PermanentCharacteristicSpec, v models.Value) []string {
	switch spec.Kind {
	case models.KindSelect:
		if len(spec.Options) > 0 && !slices.Contains(spec.Options, v.Text()) {
			return []string{fmt.Sprintf("%s: invalid option", spec.Label)}
		}
	case models.KindNumber:
		return checkBounds(spec.Label, v, spec.Min, spec.Max)
	}
	return nil
}

func checkSelectable(spec models.SelectableCharacteristicSpec, v models.Value) []string {
	switch spec.Kind {
	case models.KindSelect:
		if len(spec.Options) > 0 {
			if _, ok := spec.Option(v.Text()); !ok {
				return []string{fmt.Sprintf("%s: invalid option", spec.Label)}
			}
		}
	case models.KindNumber:
		return checkBounds(spec.Label, v, spec.Min, spec.Max)
	}
	return nil
}

func checkBounds(label string, v models.Value, min, max *float64) []string {
	n, ok := v.Number()
	if !ok {
		return []string{fmt.Sprintf("%s must be a number", label)}
	}
	var msgs []string
	if min != nil && n < *min {
		msgs = append(msgs, fmt.Sprintf("%s must be greater than or equal to %s", label, formatBound(*min)))
	}
	if max != nil && n > *max {
		msgs = append(msgs, fmt.Sprintf("%s must be less than or equal to %s", label, formatBound(*max)))
	}
	return msgs
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// reprice recomputes the unit price of a catalog line from its selectable
// characteristics and drops any manual override.
func reprice(product models.ProductDefinition, line *models.QuoteLine) {
	line.UnitPrice = LineUnitPrice(product, line.Selectable)
	line.PriceOverridden = false
}

func checkLineProduct(product models.ProductDefinition, line models.QuoteLine) error {
	if line.Kind != models.LineExisting {
		return invalid("characteristics can only be changed on catalog lines")
	}
	if line.Product.ID != product.ID {
		return invalid(fmt.Sprintf("line references product %q, not %q", line.Product.ID, product.ID))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
