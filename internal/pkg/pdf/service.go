// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/sale"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// CompanyInfo holds the seller details printed on receipts
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// ReceiptData is the template payload for a sale receipt
type ReceiptData struct {
	ReceiptNumber string
	IssuedAt      string
	CustomerName  string
	Sale          *sale.Sale
	Company       CompanyInfo
}

// GenerateReceipt renders a PDF receipt for a committed sale
func (s *Service) GenerateReceipt(committed *sale.Sale, customerName string) (*bytes.Buffer, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCP-%06d", committed.ID),
		IssuedAt:      time.Now().Format("January 2, 2006"),
		CustomerName:  customerName,
		Sale:          committed,
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data ReceiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
  .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
  h1 { font-size: 20px; margin: 0 0 4px 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th { text-align: left; border-bottom: 2px solid #222; padding: 6px 4px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 4px; }
  .num { text-align: right; }
  .total-row td { border-bottom: none; font-weight: bold; font-size: 14px; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <h1>{{.Company.Name}}</h1>
      <div>{{.Company.Address}}</div>
      <div>{{.Company.Phone}} {{.Company.Email}}</div>
    </div>
    <div>
      <h1>Receipt {{.ReceiptNumber}}</h1>
      <div>Date: {{.IssuedAt}}</div>
      <div>Customer: {{.CustomerName}}</div>
      <div>Channel: {{.Sale.EntryChannel}}</div>
    </div>
  </div>

  <table>
    <tr>
      <th>Product</th>
      <th class="num">Quantity</th>
      <th class="num">Unit price</th>
      <th class="num">Subtotal</th>
    </tr>
    {{range .Sale.Lines}}
    <tr>
      <td>{{if .Product}}{{.Product.Name}}{{else}}#{{.ProductID}}{{end}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.UnitPrice}}</td>
      <td class="num">{{.Subtotal}}</td>
    </tr>
    {{end}}
    <tr class="total-row">
      <td colspan="3">Total</td>
      <td class="num">{{.Sale.Total}}</td>
    </tr>
  </table>
</body>
</html>`
