package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shoplist/backend/internal/domain"
)

// Supported bill output formats
const (
	BillFormatJSON = "json"
	BillFormatHTML = "html"
)

// BillServiceConfig holds configuration for bill generation
type BillServiceConfig struct {
	CompanyName       string
	Currency          string
	TaxRate           float64 // e.g. 0.10 for 10% GST
	StoreDisplayNames map[string]string
}

// BillService turns an optimization result into a formatted shopping bill
// and persists the rendered output.
type BillService struct {
	bills             domain.BillRepository
	companyName       string
	currency          string
	taxRate           float64
	storeDisplayNames map[string]string
}

// NewBillService creates a bill service with the given repository and config
func NewBillService(bills domain.BillRepository, config BillServiceConfig) *BillService {
	companyName := config.CompanyName
	if companyName == "" {
		companyName = "Recipe Shoplist"
	}
	currency := config.Currency
	if currency == "" {
		currency = "AUD"
	}
	taxRate := config.TaxRate
	if taxRate <= 0 {
		taxRate = 0.10
	}

	return &BillService{
		bills:             bills,
		companyName:       companyName,
		currency:          currency,
		taxRate:           taxRate,
		storeDisplayNames: config.StoreDisplayNames,
	}
}

// GenerateBill builds a bill from a recipe and its optimization result,
// renders it in the requested format, and persists both.
func (s *BillService) GenerateBill(
	ctx context.Context,
	recipe *domain.Recipe,
	result *domain.OptimizationResult,
	format string,
) (*domain.Bill, error) {
	if recipe == nil || result == nil {
		return nil, domain.ErrInvalidRequest
	}
	if format == "" {
		format = BillFormatJSON
	}
	if format != BillFormatJSON && format != BillFormatHTML {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}

	subtotal := result.TotalCost
	taxAmount := round2(subtotal * s.taxRate)

	bill := &domain.Bill{
		ID:          uuid.New().String()[:8],
		RecipeTitle: recipe.Title,
		GeneratedAt: time.Now().UTC(),
		Items:       result.Items,
		Subtotal:    round2(subtotal),
		TaxRate:     s.taxRate,
		TaxAmount:   taxAmount,
		Total:       round2(subtotal + taxAmount),
		Stores:      result.Stores,
		Breakdown:   s.breakdown(result),
		Currency:    s.currency,
		Strategy:    result.Strategy,
		Savings:     round2(result.Savings),
	}

	rendered, err := s.render(bill, format)
	if err != nil {
		return nil, err
	}

	if err := s.bills.Save(ctx, bill, rendered, format); err != nil {
		return nil, fmt.Errorf("saving bill: %w", err)
	}

	logger.Info().
		Str("bill_id", bill.ID).
		Str("recipe", bill.RecipeTitle).
		Str("format", format).
		Float64("total", bill.Total).
		Msg("generated bill")

	return bill, nil
}

// GetBill loads a previously generated bill by id
func (s *BillService) GetBill(ctx context.Context, billID string) (*domain.Bill, error) {
	return s.bills.Load(ctx, billID)
}

// GetRenderedBill loads the rendered output of a bill in the given format
func (s *BillService) GetRenderedBill(ctx context.Context, billID, format string) ([]byte, error) {
	if format != BillFormatJSON && format != BillFormatHTML {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	return s.bills.LoadRendered(ctx, billID, format)
}

// ReceiptSummary renders a short plain-text summary for display
func (s *BillService) ReceiptSummary(bill *domain.Bill) string {
	found := 0
	for _, item := range bill.Items {
		if item.Matched() {
			found++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shopping Receipt Summary\n\n")
	fmt.Fprintf(&b, "Recipe: %s\n", bill.RecipeTitle)
	fmt.Fprintf(&b, "Bill ID: %s\n\n", bill.ID)
	fmt.Fprintf(&b, "Items: %d of %d found\n", found, len(bill.Items))
	fmt.Fprintf(&b, "Stores: %d\n\n", len(bill.Stores))
	fmt.Fprintf(&b, "Subtotal: $%.2f\n", bill.Subtotal)
	fmt.Fprintf(&b, "Tax: $%.2f\n", bill.TaxAmount)
	fmt.Fprintf(&b, "Total: $%.2f %s\n", bill.Total, bill.Currency)
	return b.String()
}

// breakdown lists per-store subtotals plus a travel line when it applies
func (s *BillService) breakdown(result *domain.OptimizationResult) []domain.BreakdownLine {
	lines := make([]domain.BreakdownLine, 0, len(result.Subtotals)+1)
	for _, sub := range result.Subtotals {
		lines = append(lines, domain.BreakdownLine{
			Label:  s.displayName(sub.Store),
			Amount: round2(sub.Subtotal),
		})
	}
	if result.TravelCost > 0 {
		lines = append(lines, domain.BreakdownLine{Label: "Travel", Amount: round2(result.TravelCost)})
	}
	return lines
}

func (s *BillService) displayName(store string) string {
	if name, ok := s.storeDisplayNames[store]; ok {
		return name
	}
	if store == "" {
		return store
	}
	return strings.ToUpper(store[:1]) + store[1:]
}

func (s *BillService) render(bill *domain.Bill, format string) ([]byte, error) {
	switch format {
	case BillFormatJSON:
		return json.MarshalIndent(bill, "", "  ")
	case BillFormatHTML:
		return s.renderHTML(bill)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
}

func (s *BillService) renderHTML(bill *domain.Bill) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.Bill
		CompanyName string
	}{Bill: bill, CompanyName: s.companyName}

	if err := billTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering bill html: %w", err)
	}
	return buf.Bytes(), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var billTemplate = template.Must(template.New("bill").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Shopping Bill - {{.RecipeTitle}}</title>
</head>
<body>
  <h1>{{.CompanyName}}</h1>
  <h2>Shopping List &amp; Cost Estimate</h2>
  <p>
    <strong>Bill ID:</strong> {{.ID}}<br>
    <strong>Recipe:</strong> {{.RecipeTitle}}<br>
    <strong>Generated:</strong> {{.GeneratedAt.Format "2006-01-02 15:04"}}<br>
    <strong>Stores to visit:</strong> {{range $i, $s := .Stores}}{{if $i}}, {{end}}{{$s}}{{end}}
  </p>
  <table border="1" cellpadding="6" cellspacing="0">
    <thead>
      <tr><th>Item</th><th>Quantity</th><th>Store</th><th>Price</th></tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.Ingredient.Name}}</td>
        <td>{{if .Ingredient.Quantity}}{{.Ingredient.Quantity}} {{.Ingredient.Unit}}{{end}}</td>
        {{if .SelectedProduct}}
        <td>{{.SelectedProduct.Store}}</td>
        <td>{{money .EstimatedCost}}</td>
        {{else}}
        <td><em>Not found</em></td>
        <td>-</td>
        {{end}}
      </tr>
      {{end}}
    </tbody>
  </table>
  <h3>Breakdown</h3>
  <ul>
    {{range .Breakdown}}<li>{{.Label}}: {{money .Amount}}</li>{{end}}
  </ul>
  <p>
    Subtotal: {{money .Subtotal}}<br>
    Tax: {{money .TaxAmount}}<br>
    <strong>Total: {{money .Total}} {{.Currency}}</strong>
  </p>
  <p><em>Generated by {{.CompanyName}}. This is an estimate based on current prices.</em></p>
</body>
</html>
`))
