package usage

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ModelPrice is the cost of one model in USD per million tokens.
type ModelPrice struct {
	Model            string          `json:"model"`
	InputPerMillion  decimal.Decimal `json:"inputPricePerMillion"`
	OutputPerMillion decimal.Decimal `json:"outputPricePerMillion"`
}

// PriceTable maps model identifiers to their token prices. The table is
// immutable once constructed and is injected at startup; price changes
// require a deploy.
type PriceTable struct {
	prices map[string]ModelPrice
}

func NewPriceTable(prices []ModelPrice) PriceTable {
	table := PriceTable{
		prices: make(map[string]ModelPrice, len(prices)),
	}
	for _, price := range prices {
		table.prices[strings.ToLower(price.Model)] = price
	}
	return table
}

func DefaultPriceTable() PriceTable {
	return NewPriceTable([]ModelPrice{
		price("gpt-4o", "2.50", "10.00"),
		price("gpt-4o-mini", "0.15", "0.60"),
		price("gpt-4.1", "2.00", "8.00"),
		price("gpt-4.1-mini", "0.40", "1.60"),
		price("gpt-4.1-nano", "0.10", "0.40"),
		price("gpt-5", "1.25", "10.00"),
		price("gpt-5-mini", "0.25", "2.00"),
		price("gpt-5-nano", "0.05", "0.40"),
		price("o3-mini", "1.10", "4.40"),
		price("gpt-3.5-turbo", "0.50", "1.50"),
	})
}

// CostFor computes the USD cost of one call. Models are matched exactly
// first, then by the longest table entry that prefixes the model name, so
// dated identifiers such as "gpt-4o-mini-2024-07-18" bill at the base model
// rate. Unknown models cost zero.
func (t PriceTable) CostFor(model string, inputTokens, outputTokens int64) float64 {
	return t.cost(model, inputTokens, outputTokens).InexactFloat64()
}

func (t PriceTable) cost(model string, inputTokens, outputTokens int64) decimal.Decimal {
	price, ok := t.lookup(model)
	if !ok {
		return decimal.Zero
	}

	return price.InputPerMillion.Mul(decimal.NewFromInt(inputTokens)).
		Add(price.OutputPerMillion.Mul(decimal.NewFromInt(outputTokens))).
		Div(tokensPerMillion)
}

// Models returns the table entries sorted by model name for display.
func (t PriceTable) Models() []ModelPrice {
	models := make([]ModelPrice, 0, len(t.prices))
	for _, price := range t.prices {
		models = append(models, price)
	}
	sort.Slice(models, func(i, j int) bool {
		return models[i].Model < models[j].Model
	})
	return models
}

func (t PriceTable) lookup(model string) (ModelPrice, bool) {
	normalized := strings.ToLower(model)
	if price, ok := t.prices[normalized]; ok {
		return price, true
	}

	match := ""
	for key := range t.prices {
		if strings.HasPrefix(normalized, key) && len(key) > len(match) {
			match = key
		}
	}
	if match == "" {
		return ModelPrice{}, false
	}
	return t.prices[match], true
}

func price(model, input, output string) ModelPrice {
	return ModelPrice{
		Model:            model,
		InputPerMillion:  decimal.RequireFromString(input),
		OutputPerMillion: decimal.RequireFromString(output),
	}
}

var tokensPerMillion = decimal.NewFromInt(1_000_000)
