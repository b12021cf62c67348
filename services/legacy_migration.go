package services

import (
	"fmt"

	"github.com/spf13/cast"

	"quotebuilder/models"
)

// LegacyReport lists what migrating one line could not carry over.
type LegacyReport struct {
	QuoteID string   `json:"quoteId,omitempty"`
	Version int      `json:"version,omitempty"`
	LineID  string   `json:"lineId"`
	Dropped []string `json:"dropped"`
}

// MigrateLegacyLine converts a line written by older versions into the
// permanent/selectable shape. Each entry of the flat characteristics map
// goes to the section of the product that declares it: permanent entries
// become enabled values, selectable entries become enabled values priced
// at the characteristic base price. Names the product no longer declares
// are dropped and listed in the report. Free-form "nuevo" lines become
// custom lines. Lines already in the current shape are returned as is.
func MigrateLegacyLine(product *models.ProductDefinition, line models.QuoteLine) (models.QuoteLine, LegacyReport) {
	report := LegacyReport{LineID: line.ID}
	if !line.IsLegacy() {
		return line, report
	}

	out, err := cloneLine(line)
	if err != nil {
		out = line
	}
	if out.Permanent == nil {
		out.Permanent = map[string]models.CharacteristicValue{}
	}
	if out.Selectable == nil {
		out.Selectable = map[string]models.CharacteristicValue{}
	}

	if out.Kind == models.LineLegacyNew || out.Product.ID == models.CustomProductID {
		out.Kind = models.LineCustom
		out.Product.ID = models.CustomProductID
		if out.Product.Name == "" {
			out.Product.Name = out.LegacyDescription
		}
		for _, name := range sortedKeys(out.LegacyCharacteristics) {
			report.Dropped = append(report.Dropped, name)
		}
		out.LegacyCharacteristics = nil
		out.LegacyDescription = ""
		return out, report
	}

	if out.Kind == "" {
		out.Kind = models.LineExisting
	}
	for _, name := range sortedKeys(out.LegacyCharacteristics) {
		raw := out.LegacyCharacteristics[name]
		if product == nil {
			report.Dropped = append(report.Dropped, name)
			continue
		}
		if spec, ok := product.Permanent[name]; ok {
			out.Permanent[name] = models.CharacteristicValue{
				Value:   legacyValue(spec.Kind, raw),
				Enabled: models.Bool(true),
			}
			continue
		}
		if spec, ok := product.Selectable[name]; ok {
			out.Selectable[name] = models.CharacteristicValue{
				Value:   legacyValue(spec.Kind, raw),
				Price:   models.Float(spec.BasePrice),
				Enabled: models.Bool(true),
			}
			continue
		}
		report.Dropped = append(report.Dropped, name)
	}
	out.LegacyCharacteristics = nil
	out.LegacyDescription = ""
	return out, report
}

// legacyValue keeps values that do not fit the declared kind as text
// rather than losing them.
func legacyValue(kind models.CharacteristicKind, raw any) models.Value {
	if v, err := models.ValueFor(kind, raw); err == nil {
		return v
	}
	return models.TextValue(cast.ToString(raw))
}

// MigrateLegacyQuote migrates every line of the live record and of each
// prior version. It reports whether anything changed and one entry per
// line that lost characteristics.
func MigrateLegacyQuote(q models.Quote, products map[string]models.ProductDefinition) (models.Quote, []LegacyReport, bool) {
	var reports []LegacyReport
	changed := false

	migrate := func(lines []models.QuoteLine, version int) {
		for i, l := range lines {
			if !l.IsLegacy() {
				continue
			}
			var product *models.ProductDefinition
			if p, ok := products[l.Product.ID]; ok {
				product = &p
			}
			migrated, report := MigrateLegacyLine(product, l)
			lines[i] = migrated
			changed = true
			if len(report.Dropped) > 0 {
				report.QuoteID = q.ID
				report.Version = version
				reports = append(reports, report)
			}
		}
	}

	out, err := cloneQuote(q)
	if err != nil {
		return q, nil, false
	}
	for i := range out.PriorVersions {
		migrate(out.PriorVersions[i].Lines, out.PriorVersions[i].Version)
	}
	migrate(out.Lines, out.Version)
	return out, reports, changed
}

// String renders a report for log output.
func (r LegacyReport) String() string {
	return fmt.Sprintf("quote %s v%d line %s: dropped %v", r.QuoteID, r.Version, r.LineID, r.Dropped)
}
