package invoice

import (
	"strings"
	"testing"
	"time"

	"workshop-backoffice-service/internal/store"
)

func testTicket() store.Ticket {
	makeName := "Toyota"
	model := "Camry"
	year := "2021"
	plate := "1234"
	letters := "ABC"
	return store.Ticket{
		ID:            7,
		CustomerName:  "Saleh",
		CustomerPhone: "0512345678",
		Title:         "Brake pad replacement",
		Price:         400,
		Discount:      50,
		Tax:           60,
		PaymentMethod: "network",
		Status:        "READY",
		UpdatedAt:     time.Date(2025, 5, 15, 10, 30, 0, 0, time.UTC),
		Make:          &makeName,
		Model:         &model,
		Year:          &year,
		PlateNumber:   &plate,
		PlateLetters:  &letters,
	}
}

func TestBuildDocument(t *testing.T) {
	doc := BuildDocument(testTicket(), "Ahmed", Company{NameAR: "ورشة الاختبار", NameEN: "Test Workshop"}, KindInvoice)

	if doc.InvoiceNumber != "WS-000007" {
		t.Errorf("invoice number = %q", doc.InvoiceNumber)
	}
	if doc.Vehicle != "Toyota Camry 2021" {
		t.Errorf("vehicle = %q", doc.Vehicle)
	}
	if doc.Plate != "ABC 1234" {
		t.Errorf("plate = %q", doc.Plate)
	}
	if doc.Total != "460.00 SAR" {
		t.Errorf("total = %q", doc.Total)
	}
	if doc.Discount != "50.00 SAR" {
		t.Errorf("discount = %q", doc.Discount)
	}
	if len(doc.Items) != 1 || doc.Items[0].Description != "Brake pad replacement" {
		t.Errorf("items = %+v", doc.Items)
	}
}

func TestBuildDocumentWithLineItems(t *testing.T) {
	tk := testTicket()
	tk.LineItems = []store.LineItem{
		{Description: "Front pads", Quantity: 2, UnitPrice: 150},
		{Description: "Labor", Quantity: 1, UnitPrice: 100},
	}

	doc := BuildDocument(tk, "", Company{NameAR: "ورشة"}, KindInvoice)
	if len(doc.Items) != 2 {
		t.Fatalf("items = %d", len(doc.Items))
	}
	if doc.Items[0].Subtotal != "300.00 SAR" {
		t.Errorf("first subtotal = %q", doc.Items[0].Subtotal)
	}
}

func TestRenderHTML(t *testing.T) {
	doc := BuildDocument(testTicket(), "Ahmed", Company{NameAR: "ورشة الاختبار", TaxNumber: "310000000000003"}, KindInvoice)
	buf, err := RenderHTML(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"WS-000007", "460.00 SAR", "310000000000003", "ورشة الاختبار"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]Kind{
		"":        KindInvoice,
		"invoice": KindInvoice,
		"ticket":  KindTicket,
		"TICKET":  KindTicket,
		"receipt": KindInvoice,
	} {
		if got := ParseKind(input); got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestRenderHTMLWorkOrder(t *testing.T) {
	doc := BuildDocument(testTicket(), "Ahmed", Company{NameAR: "ورشة"}, KindTicket)
	buf, err := RenderHTML(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "460.00 SAR") {
		t.Error("work order must not carry pricing")
	}
	if !strings.Contains(html, "Work Order") {
		t.Error("missing work order heading")
	}
	if !strings.Contains(html, "READY") {
		t.Error("missing ticket status")
	}
}

func TestRenderPDF(t *testing.T) {
	doc := BuildDocument(testTicket(), "Ahmed", Company{NameAR: "ورشة", NameEN: "Test Workshop"}, KindInvoice)
	buf, err := RenderPDF(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.Len() == 0 || !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("expected a pdf document")
	}
}
