package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"workshop-backoffice-service/internal/money"
	"workshop-backoffice-service/internal/store"
)

const currency = "SAR"

// Kind selects the printable variant: the customer invoice with
// pricing totals, or the work-order copy used on the shop floor.
type Kind string

const (
	KindInvoice Kind = "invoice"
	KindTicket  Kind = "ticket"
)

// ParseKind maps a request parameter to a Kind, defaulting to the
// invoice variant for anything unrecognized.
func ParseKind(s string) Kind {
	if strings.EqualFold(strings.TrimSpace(s), string(KindTicket)) {
		return KindTicket
	}
	return KindInvoice
}

type Company struct {
	NameAR    string
	NameEN    string
	Address   string
	Phone     string
	TaxNumber string
}

type Line struct {
	Description string
	Quantity    float64
	UnitPrice   string
	Subtotal    string
}

// Document is the render-ready view of a ticket invoice. All money
// fields are preformatted strings so both renderers stay dumb.
type Document struct {
	Kind          Kind
	Company       Company
	InvoiceNumber string
	IssuedAt      string
	CustomerName  string
	CustomerPhone string
	Vehicle       string
	Plate         string
	WorkerName    string
	Status        string
	Items         []Line
	Subtotal      string
	Discount      string
	VAT           string
	Total         string
	PaymentMethod string
}

// WorkOrder reports whether the document is the shop-floor copy,
// which carries no pricing.
func (d Document) WorkOrder() bool {
	return d.Kind == KindTicket
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f %s", money.Round2(v), currency)
}

func vehicleDescription(t store.Ticket) string {
	parts := make([]string, 0, 4)
	for _, p := range []*string{t.Make, t.Model, t.Year, t.Color} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 && t.CarInfo != nil {
		return strings.TrimSpace(*t.CarInfo)
	}
	return strings.Join(parts, " ")
}

func plateDescription(t store.Ticket) string {
	parts := make([]string, 0, 2)
	if t.PlateLetters != nil && strings.TrimSpace(*t.PlateLetters) != "" {
		parts = append(parts, strings.TrimSpace(*t.PlateLetters))
	}
	if t.PlateNumber != nil && strings.TrimSpace(*t.PlateNumber) != "" {
		parts = append(parts, strings.TrimSpace(*t.PlateNumber))
	}
	return strings.Join(parts, " ")
}

// BuildDocument flattens a ticket into a Document. Tickets without line
// items get a single line carrying the full tax-exclusive price.
func BuildDocument(t store.Ticket, workerName string, company Company, kind Kind) Document {
	doc := Document{
		Kind:          kind,
		Company:       company,
		InvoiceNumber: fmt.Sprintf("WS-%06d", t.ID),
		IssuedAt:      t.UpdatedAt.Format("2006-01-02 15:04"),
		CustomerName:  t.CustomerName,
		CustomerPhone: t.CustomerPhone,
		Vehicle:       vehicleDescription(t),
		Plate:         plateDescription(t),
		WorkerName:    workerName,
		Status:        t.Status,
		Subtotal:      formatAmount(t.Price),
		VAT:           formatAmount(t.Tax),
		Total:         formatAmount(t.Price + t.Tax),
		PaymentMethod: t.PaymentMethod,
	}
	if t.Discount > 0 {
		doc.Discount = formatAmount(t.Discount)
	}

	if len(t.LineItems) > 0 {
		for _, item := range t.LineItems {
			doc.Items = append(doc.Items, Line{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   formatAmount(item.UnitPrice),
				Subtotal:    formatAmount(item.Quantity * item.UnitPrice),
			})
		}
	} else {
		doc.Items = append(doc.Items, Line{
			Description: t.Title,
			Quantity:    1,
			UnitPrice:   formatAmount(t.Price),
			Subtotal:    formatAmount(t.Price),
		})
	}

	if doc.IssuedAt == "0001-01-01 00:00" {
		doc.IssuedAt = time.Now().Format("2006-01-02 15:04")
	}
	return doc
}

const invoiceHTMLTemplate = `<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head>
  <meta charset="UTF-8" />
  <title>{{.InvoiceNumber}}</title>
  <style>
    * { box-sizing: border-box; }
    body { font-family: 'Segoe UI', Tahoma, sans-serif; font-size: 13px; padding: 16px; color: #000; }
    .header { text-align: center; border-bottom: 1px dashed #000; padding-bottom: 8px; margin-bottom: 8px; }
    .company-name { font-size: 18px; font-weight: bold; }
    .meta { margin-bottom: 8px; }
    .section { border-top: 1px dashed #999; padding-top: 6px; margin-top: 6px; }
    .row { display: flex; justify-content: space-between; margin: 2px 0; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border-bottom: 1px solid #ddd; padding: 4px; text-align: right; }
    .total { font-weight: bold; font-size: 15px; }
  </style>
</head>
<body>
  <div class="header">
    <div class="company-name">{{.Company.NameAR}}</div>
    {{if .Company.NameEN}}<div>{{.Company.NameEN}}</div>{{end}}
    {{if .Company.Address}}<div>{{.Company.Address}}</div>{{end}}
    {{if .Company.Phone}}<div>{{.Company.Phone}}</div>{{end}}
    {{if .Company.TaxNumber}}<div>الرقم الضريبي / VAT No: {{.Company.TaxNumber}}</div>{{end}}
  </div>
  <div class="meta">
    <div class="row"><div>{{if .WorkOrder}}أمر عمل / Work Order{{else}}فاتورة / Invoice{{end}}</div><div>{{.InvoiceNumber}}</div></div>
    <div class="row"><div>التاريخ / Date</div><div>{{.IssuedAt}}</div></div>
    <div class="row"><div>العميل / Customer</div><div>{{.CustomerName}}</div></div>
    {{if .CustomerPhone}}<div class="row"><div>الجوال / Phone</div><div>{{.CustomerPhone}}</div></div>{{end}}
    {{if .Vehicle}}<div class="row"><div>السيارة / Vehicle</div><div>{{.Vehicle}}</div></div>{{end}}
    {{if .Plate}}<div class="row"><div>اللوحة / Plate</div><div>{{.Plate}}</div></div>{{end}}
    {{if .WorkerName}}<div class="row"><div>الفني / Technician</div><div>{{.WorkerName}}</div></div>{{end}}
    {{if .WorkOrder}}<div class="row"><div>الحالة / Status</div><div>{{.Status}}</div></div>{{end}}
  </div>
  <table>
    <tr><th>الوصف / Description</th><th>الكمية / Qty</th>{{if not .WorkOrder}}<th>السعر / Price</th><th>الإجمالي / Subtotal</th>{{end}}</tr>
    {{range .Items}}
    <tr><td>{{.Description}}</td><td>{{.Quantity}}</td>{{if not $.WorkOrder}}<td>{{.UnitPrice}}</td><td>{{.Subtotal}}</td>{{end}}</tr>
    {{end}}
  </table>
  {{if not .WorkOrder}}
  <div class="section">
    <div class="row"><div>المجموع / Subtotal</div><div>{{.Subtotal}}</div></div>
    {{if .Discount}}<div class="row"><div>الخصم / Discount</div><div>-{{.Discount}}</div></div>{{end}}
    <div class="row"><div>الضريبة / VAT</div><div>{{.VAT}}</div></div>
    <div class="row total"><div>الإجمالي / Total</div><div>{{.Total}}</div></div>
  </div>
  <div class="section">
    {{if .PaymentMethod}}<div class="row"><div>طريقة الدفع / Payment</div><div>{{.PaymentMethod}}</div></div>{{end}}
  </div>
  {{end}}
</body>
</html>`

func RenderHTML(doc Document) (*bytes.Buffer, error) {
	tmpl, err := template.New("invoice").Parse(invoiceHTMLTemplate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return &buf, nil
}

// RenderPDF produces the printable copy. Core PDF fonts cannot shape
// Arabic, so the PDF uses the Latin company name and English labels.
func RenderPDF(doc Document) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	companyName := doc.Company.NameEN
	if companyName == "" {
		companyName = doc.Company.NameAR
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, companyName, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	if doc.Company.Address != "" {
		pdf.CellFormat(0, 5, doc.Company.Address, "", 1, "C", false, 0, "")
	}
	if doc.Company.Phone != "" {
		pdf.CellFormat(0, 5, doc.Company.Phone, "", 1, "C", false, 0, "")
	}
	if doc.Company.TaxNumber != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("VAT No: %s", doc.Company.TaxNumber), "", 1, "C", false, 0, "")
	}

	heading := "Invoice"
	if doc.WorkOrder() {
		heading = "Work Order"
	}
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s %s", heading, doc.InvoiceNumber), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Date: %s", doc.IssuedAt), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Customer: %s", doc.CustomerName), "", 1, "C", false, 0, "")
	if doc.CustomerPhone != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Phone: %s", doc.CustomerPhone), "", 1, "C", false, 0, "")
	}
	if doc.Vehicle != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Vehicle: %s", doc.Vehicle), "", 1, "C", false, 0, "")
	}
	if doc.Plate != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Plate: %s", doc.Plate), "", 1, "C", false, 0, "")
	}
	if doc.WorkOrder() {
		pdf.CellFormat(0, 5, fmt.Sprintf("Status: %s", doc.Status), "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, item := range doc.Items {
		pdf.CellFormat(0, 5, fmt.Sprintf("%gx %s", item.Quantity, item.Description), "", 1, "L", false, 0, "")
		if !doc.WorkOrder() {
			pdf.CellFormat(0, 5, fmt.Sprintf("Subtotal: %s", item.Subtotal), "", 1, "L", false, 0, "")
		}
		pdf.Ln(1)
	}

	if !doc.WorkOrder() {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Totals", "B", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("Subtotal: %s", doc.Subtotal), "", 1, "L", false, 0, "")
		if doc.Discount != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("Discount: -%s", doc.Discount), "", 1, "L", false, 0, "")
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("VAT: %s", doc.VAT), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 6, fmt.Sprintf("Total: %s", doc.Total), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "", 9)
	if !doc.WorkOrder() && doc.PaymentMethod != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Payment: %s", doc.PaymentMethod), "", 1, "L", false, 0, "")
	}
	if doc.WorkerName != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Technician: %s", doc.WorkerName), "", 1, "L", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
