package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
)

// buildExportData loads one version of a quote and flattens it for export.
func buildExportData(ctx context.Context, quotes *services.QuoteService, catalog *services.Catalog, id string, version int) (services.ExportData, error) {
	q, err := quotes.GetVersion(ctx, id, version)
	if err != nil {
		return services.ExportData{}, err
	}
	products, err := catalog.Products(ctx)
	if err != nil {
		return services.ExportData{}, fmt.Errorf("export: %w", err)
	}
	return services.BuildExportData(q, products), nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

func exportFilename(data services.ExportData, ext string) string {
	return fmt.Sprintf("Presupuesto_%s_v%d.%s", sanitizeFilename(data.Number), data.Version, ext)
}

// HandleQuoteExportExcel returns a handler that downloads one version of a quote as Excel.
func HandleQuoteExportExcel(quotes *services.QuoteService, catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		version, err := versionParam(e)
		if err != nil {
			return respondError(e, "export_excel", err)
		}

		data, err := buildExportData(e.Request.Context(), quotes, catalog, e.Request.PathValue("id"), version)
		if err != nil {
			return respondError(e, "export_excel", err)
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "xlsx")))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleQuoteExportPDF returns a handler that downloads one version of a quote as PDF.
func HandleQuoteExportPDF(quotes *services.QuoteService, catalog *services.Catalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		version, err := versionParam(e)
		if err != nil {
			return respondError(e, "export_pdf", err)
		}

		data, err := buildExportData(e.Request.Context(), quotes, catalog, e.Request.PathValue("id"), version)
		if err != nil {
			return respondError(e, "export_pdf", err)
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "pdf")))
		e.Response.Write(pdfBytes)
		return nil
	}
}
