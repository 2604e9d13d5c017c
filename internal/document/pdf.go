// Package document renders fulfillment paperwork as PDFs: the packing
// checklist the warehouse works through and the shipping label glued on the
// box. Generation is pure; a failure here never touches order state.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
)

// PackingChecklist renders an A4 checklist for picking an order: one row per
// line with quantity, SKU, product name, color, and a blank checkbox.
func PackingChecklist(order *domain.Order, sender domain.Address) ([]byte, error) {
	if order == nil || len(order.Items) == 0 {
		return nil, apperrors.InvalidInput("order has no items to pack")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("Lista de empaque %s", order.ID)), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(sender.FullName))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Lista de empaque — pedido %s", order.ID)))
	pdf.Ln(6)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Fecha: %s", order.CreatedAt.Format("02/01/2006"))))
	pdf.Ln(12)

	// Table header.
	colWidths := []float64{18, 35, 80, 35, 12}
	headers := []string{"Cant.", "SKU", "Producto", "Color", ""}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(colWidths[0], 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, tr(item.SKU), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, tr(item.Color), "1", 0, "L", false, 0, "")

		// Blank checkbox centered in the last column.
		x, y := pdf.GetXY()
		pdf.CellFormat(colWidths[4], 8, "", "1", 0, "C", false, 0, "")
		pdf.Rect(x+4, y+2, 4, 4, "D")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, tr(fmt.Sprintf("%d articulos en total", domain.OrderItemCount(order.Items))))

	return output(pdf)
}

// ShippingLabel renders an A6 landscape label with sender, recipient, order
// number, and the tracking number when one has been assigned.
func ShippingLabel(order *domain.Order, sender domain.Address) ([]byte, error) {
	if order == nil {
		return nil, apperrors.InvalidInput("order is required")
	}
	if order.ShippingAddress == nil {
		return nil, apperrors.InvalidInput("order has no shipping address")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 105, Ht: 148}, // A6
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("Etiqueta de envio %s", order.ID)), true)
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 4, tr("REMITENTE:"))
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 4, tr(formatAddress(sender)), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.Cell(0, 4, tr("DESTINATARIO:"))
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.MultiCell(0, 6, tr(formatAddress(*order.ShippingAddress)), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Pedido: %s", order.ID)))
	if order.TrackingNumber != "" {
		pdf.Ln(5)
		pdf.Cell(0, 5, tr(fmt.Sprintf("Guía: %s", order.TrackingNumber)))
	}

	return output(pdf)
}

func formatAddress(a domain.Address) string {
	parts := []string{a.FullName, a.AddressLine}
	cityLine := strings.TrimSpace(fmt.Sprintf("%s, %s %s", a.City, a.State, a.PostalCode))
	parts = append(parts, cityLine, a.Country)
	if a.Phone != "" {
		parts = append(parts, fmt.Sprintf("Tel: %s", a.Phone))
	}

	var nonEmpty []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
