package services

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfGrey   = &props.Color{Red: 80, Green: 80, Blue: 80}
	pdfMuted  = &props.Color{Red: 120, Green: 120, Blue: 120}
	pdfHeadBg = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfWhite  = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfBand   = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// GeneratePDF renders one quote version as an A4 portrait PDF.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   pdfMuted,
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)
	addLinesHeader(m)
	for _, r := range data.Rows {
		addQuoteRow(m, r)
	}
	if len(data.Options) > 0 {
		m.AddRows(row.New(4))
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("Opciones", props.Text{Size: 9, Style: fontstyle.Bold}),
		)))
		for _, r := range data.Options {
			addQuoteRow(m, r)
		}
	}
	addQuoteSummary(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addQuoteHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
			),
		),
		row.New(6).Add(
			col.New(6).Add(
				text.New("Versión "+strconv.Itoa(data.Version)+" · "+data.Status, props.Text{Size: 9, Color: pdfGrey}),
			),
			col.New(6).Add(
				text.New("Fecha: "+data.Date, props.Text{Size: 9, Align: align.Right, Color: pdfGrey}),
			),
		),
	)

	client := "Cliente: " + data.ClientName
	if data.ClientTaxID != "" {
		client += " (" + data.ClientTaxID + ")"
	}
	m.AddRows(row.New(6).Add(col.New(12).Add(text.New(client, props.Text{Size: 9}))))
	if data.ClientAddr != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New(data.ClientAddr, props.Text{Size: 8, Color: pdfGrey}))))
	}
	m.AddRows(row.New(4))
}

func addLinesHeader(m core.Maroto) {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: pdfWhite}
	headLeft := head
	headLeft.Align = align.Left
	cell := &props.Cell{BackgroundColor: pdfHeadBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", head)).WithStyle(cell),
			col.New(5).Add(text.New("Descripción", headLeft)).WithStyle(cell),
			col.New(2).Add(text.New("Referencia", head)).WithStyle(cell),
			col.New(1).Add(text.New("Cant.", head)).WithStyle(cell),
			col.New(1).Add(text.New("Precio", head)).WithStyle(cell),
			col.New(2).Add(text.New("Importe", head)).WithStyle(cell),
		),
	)
}

// addQuoteRow prints a line in bold and its characteristics indented on a
// light band underneath.
func addQuoteRow(m core.Maroto, r ExportRow) {
	if r.Level > 0 {
		detail := props.Text{Size: 7, Color: pdfGrey}
		cell := &props.Cell{BackgroundColor: pdfBand}
		m.AddRows(
			row.New(5).Add(
				col.New(1).WithStyle(cell),
				col.New(11).Add(text.New("  "+r.Description, detail)).WithStyle(cell),
			),
		)
		return
	}

	base := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(r.Index, base)),
			col.New(5).Add(text.New(r.Description, left)),
			col.New(2).Add(text.New(r.Reference, base)),
			col.New(1).Add(text.New(strconv.Itoa(r.Qty), right)),
			col.New(1).Add(text.New(FormatEUR(r.UnitPrice), right)),
			col.New(2).Add(text.New(FormatEUR(r.Amount), right)),
		),
	)
}

func addQuoteSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	cell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	for _, s := range []struct {
		label string
		value float64
	}{
		{"Subtotal líneas", data.LinesTotal},
		{"Opciones", data.OptionsTotal},
		{"Total", data.Total},
	} {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(s.label, label)).WithStyle(cell),
				col.New(4).Add(text.New(FormatEUR(s.value), label)).WithStyle(cell),
			),
		)
	}
}
