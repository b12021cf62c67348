package services

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"quotebuilder/models"
)

// LineInput carries the caller-supplied fields of a new line.
type LineInput struct {
	Reference   string
	Description string // custom lines only
	Quantity    int
	UnitPrice   float64 // required for custom lines, an override for catalog lines
}

// SelectablePatch changes one selectable characteristic. Nil fields are
// left as they are.
type SelectablePatch struct {
	Enabled *bool `json:"activada,omitempty"`
	Value   any   `json:"valor,omitempty"`
}

// LinePatch is a partial update of a line. ProductID switches a catalog
// line to another product, which rebuilds it from scratch.
type LinePatch struct {
	ProductID   *string                    `json:"productoId,omitempty"`
	Reference   *string                    `json:"referencia,omitempty"`
	Description *string                    `json:"descripcion,omitempty"`
	Quantity    *int                       `json:"cantidad,omitempty"`
	UnitPrice   *float64                   `json:"precio,omitempty"`
	Permanent   map[string]any             `json:"caracteristicasPermanentes,omitempty"`
	Selectable  map[string]SelectablePatch `json:"caracteristicasSeleccionables,omitempty"`
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func normalizeQuantity(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

func cloneLine(line models.QuoteLine) (models.QuoteLine, error) {
	var out models.QuoteLine
	if err := deepcopy.Copy(&out, line); err != nil {
		return models.QuoteLine{}, fmt.Errorf("copy line %s: %w", line.ID, err)
	}
	return out, nil
}

// CreateLine builds a new line. Catalog lines are seeded from the product
// and priced from its selectable characteristics; a positive UnitPrice in
// the input overrides that price. Custom lines carry no characteristics
// and take the caller's price.
func CreateLine(kind models.LineKind, product *models.ProductDefinition, in LineInput) (models.QuoteLine, error) {
	line := models.QuoteLine{
		ID:        newID(),
		Kind:      kind,
		Reference: strings.TrimSpace(in.Reference),
		Quantity:  normalizeQuantity(in.Quantity),
	}

	switch kind {
	case models.LineExisting:
		if product == nil {
			return models.QuoteLine{}, invalid("product: a product must be selected")
		}
		line.Product = models.ProductRef{ID: product.ID, Name: product.Name}
		line.Permanent, line.Selectable = DefaultCharacteristicValues(*product)
		line.UnitPrice = LineUnitPrice(*product, line.Selectable)
		if in.UnitPrice > 0 {
			line.UnitPrice = in.UnitPrice
			line.PriceOverridden = true
		}
	case models.LineCustom:
		line.Product = models.ProductRef{ID: models.CustomProductID, Name: strings.TrimSpace(in.Description)}
		line.Permanent = map[string]models.CharacteristicValue{}
		line.Selectable = map[string]models.CharacteristicValue{}
		line.UnitPrice = in.UnitPrice
		if err := ValidateLine(nil, line); err != nil {
			return models.QuoteLine{}, err
		}
	default:
		return models.QuoteLine{}, invalid(fmt.Sprintf("kind: unknown line kind %q", kind))
	}
	return line, nil
}

// UpdateLine applies patch to line and returns the updated copy. When the
// patch selects a different product the line is rebuilt against it, keeping
// only its id, reference and quantity. product must be the catalog entry of
// the line after the patch (nil for custom lines).
func UpdateLine(product *models.ProductDefinition, line models.QuoteLine, patch LinePatch) (models.QuoteLine, error) {
	out, err := cloneLine(line)
	if err != nil {
		return models.QuoteLine{}, err
	}

	if out.Kind == models.LineExisting {
		if product == nil {
			return models.QuoteLine{}, invalid("product: a product must be selected")
		}
		if patch.ProductID != nil && *patch.ProductID != out.Product.ID {
			if product.ID != *patch.ProductID {
				return models.QuoteLine{}, invalid(fmt.Sprintf("product: %q does not match %q", product.ID, *patch.ProductID))
			}
			rebuilt, err := CreateLine(models.LineExisting, product, LineInput{
				Reference: out.Reference,
				Quantity:  out.Quantity,
			})
			if err != nil {
				return models.QuoteLine{}, err
			}
			rebuilt.ID = out.ID
			out = rebuilt
		}
	}

	if patch.Quantity != nil {
		out.Quantity = normalizeQuantity(*patch.Quantity)
	}
	if patch.Reference != nil {
		out.Reference = strings.TrimSpace(*patch.Reference)
	}
	if patch.Description != nil && out.Kind == models.LineCustom {
		out.Product.Name = strings.TrimSpace(*patch.Description)
	}

	if out.Kind == models.LineExisting {
		for _, name := range sortedKeys(patch.Permanent) {
			if out, err = SetCharacteristicValue(*product, out, name, patch.Permanent[name]); err != nil {
				return models.QuoteLine{}, err
			}
		}
		for _, name := range sortedKeys(patch.Selectable) {
			sp := patch.Selectable[name]
			if sp.Value != nil {
				if out, err = SetCharacteristicValue(*product, out, name, sp.Value); err != nil {
					return models.QuoteLine{}, err
				}
			}
			if sp.Enabled != nil {
				if out, err = SetCharacteristicEnabled(*product, out, name, *sp.Enabled); err != nil {
					return models.QuoteLine{}, err
				}
			}
		}
	} else if len(patch.Permanent) > 0 || len(patch.Selectable) > 0 {
		return models.QuoteLine{}, invalid("characteristics can only be changed on catalog lines")
	}

	if patch.UnitPrice != nil {
		out.UnitPrice = *patch.UnitPrice
		out.PriceOverridden = out.Kind == models.LineExisting
	}
	return out, nil
}

// DuplicateLine copies line under a fresh id.
func DuplicateLine(line models.QuoteLine) (models.QuoteLine, error) {
	out, err := cloneLine(line)
	if err != nil {
		return models.QuoteLine{}, err
	}
	out.ID = newID()
	return out, nil
}

// MoveLine swaps the line at from with its neighbour at to. Only moves of
// one position up or down are accepted.
func MoveLine(lines []models.QuoteLine, from, to int) ([]models.QuoteLine, error) {
	if from < 0 || from >= len(lines) || to < 0 || to >= len(lines) {
		return nil, invalid(fmt.Sprintf("position: cannot move line %d to %d of %d", from, to, len(lines)))
	}
	if d := from - to; d != 1 && d != -1 {
		return nil, invalid("position: lines move one place at a time")
	}
	out := make([]models.QuoteLine, len(lines))
	copy(out, lines)
	out[from], out[to] = out[to], out[from]
	return out, nil
}

// ValidateLine checks a line before it is accepted into a quote. Catalog
// lines need their product, a non-zero price and valid characteristics;
// custom lines need a description and a non-zero price.
func ValidateLine(product *models.ProductDefinition, line models.QuoteLine) error {
	var fields validation.Errors
	var extra []string

	switch line.Kind {
	case models.LineExisting:
		fields = validation.Errors{
			"product":   validation.Validate(line.Product.ID, validation.Required.Error("a product must be selected")),
			"unitPrice": validation.Validate(line.UnitPrice, validation.Required.Error("price cannot be 0")),
		}
		switch {
		case line.Product.ID == "":
		case product == nil || product.ID != line.Product.ID:
			extra = append(extra, fmt.Sprintf("product: %q not found", line.Product.ID))
		default:
			extra = append(extra, ValidateCharacteristics(*product, line.Permanent, line.Selectable)...)
		}
	case models.LineCustom:
		fields = validation.Errors{
			"description": validation.Validate(strings.TrimSpace(line.Product.Name), validation.Required.Error("a description is required")),
			"unitPrice":   validation.Validate(line.UnitPrice, validation.Required.Error("price cannot be 0")),
		}
	default:
		return invalid(fmt.Sprintf("kind: unknown line kind %q", line.Kind))
	}

	var msgs []string
	if err := fields.Filter(); err != nil {
		if ve, ok := fromValidation(err).(*ValidationError); ok {
			msgs = append(msgs, ve.Messages...)
		}
	}
	msgs = append(msgs, extra...)
	if len(msgs) > 0 {
		return invalid(msgs...)
	}
	return nil
}
