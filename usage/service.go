package usage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/glucolog/insights/settings"
	"github.com/glucolog/insights/store"
)

const reportBatchSize = 500

// Report is the usage breakdown for a window. Every cost figure is
// recomputed from the injected price table at read time.
type Report struct {
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	TimeZone string        `json:"timeZone"`
	Totals   Totals        `json:"totals"`
	Models   []ModelTotals `json:"models"`
	Days     []DayTotals   `json:"days"`
	Rows     []Row         `json:"rows"`
}

type Totals struct {
	Calls        int     `json:"calls"`
	InputTokens  int64   `json:"inputTokens"`
	OutputTokens int64   `json:"outputTokens"`
	TotalTokens  int64   `json:"totalTokens"`
	CostUSD      float64 `json:"costUsd"`
}

type ModelTotals struct {
	Model string `json:"model"`
	Totals
}

type DayTotals struct {
	Day string `json:"day"`
	Totals
}

type Row struct {
	Record
	CostUSD float64 `json:"costUsd"`
}

type Service interface {
	Report(ctx context.Context, start, end time.Time) (*Report, error)
}

type service struct {
	repo     Repository
	table    PriceTable
	settings settings.Service
	logger   *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo Repository, table PriceTable, settingsService settings.Service, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repo:     repo,
		table:    table,
		settings: settingsService,
		logger:   logger,
	}, nil
}

func (s *service) Report(ctx context.Context, start, end time.Time) (*Report, error) {
	snapshot, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	location, err := snapshot.Location()
	if err != nil {
		return nil, fmt.Errorf("error resolving reporting time zone: %w", err)
	}

	report := &Report{
		Start:    start,
		End:      end,
		TimeZone: location.String(),
		Rows:     []Row{},
	}

	totalCost := decimal.Zero
	modelTotals := map[string]*ModelTotals{}
	modelCosts := map[string]decimal.Decimal{}
	dayTotals := map[string]*DayTotals{}
	dayCosts := map[string]decimal.Decimal{}

	filter := &Filter{From: &start, To: &end}
	page := store.DefaultPagination().WithLimit(reportBatchSize)
	for {
		records, err := s.repo.List(ctx, filter, page)
		if err != nil {
			return nil, err
		}

		for _, record := range records {
			cost := s.table.cost(record.Model, record.InputTokens, record.OutputTokens)
			report.Rows = append(report.Rows, Row{
				Record:  *record,
				CostUSD: cost.InexactFloat64(),
			})

			report.Totals.add(record)
			totalCost = totalCost.Add(cost)

			model, ok := modelTotals[record.Model]
			if !ok {
				model = &ModelTotals{Model: record.Model}
				modelTotals[record.Model] = model
			}
			model.Totals.add(record)
			modelCosts[record.Model] = modelCosts[record.Model].Add(cost)

			key := record.CreatedTime.In(location).Format(time.DateOnly)
			day, ok := dayTotals[key]
			if !ok {
				day = &DayTotals{Day: key}
				dayTotals[key] = day
			}
			day.Totals.add(record)
			dayCosts[key] = dayCosts[key].Add(cost)
		}

		if len(records) < page.Limit {
			break
		}
		page = page.WithOffset(page.Offset + page.Limit)
	}

	report.Totals.CostUSD = totalCost.InexactFloat64()

	report.Models = make([]ModelTotals, 0, len(modelTotals))
	for name, model := range modelTotals {
		model.CostUSD = modelCosts[name].InexactFloat64()
		report.Models = append(report.Models, *model)
	}
	sort.Slice(report.Models, func(i, j int) bool {
		return report.Models[i].Model < report.Models[j].Model
	})

	report.Days = make([]DayTotals, 0, len(dayTotals))
	for key, day := range dayTotals {
		day.CostUSD = dayCosts[key].InexactFloat64()
		report.Days = append(report.Days, *day)
	}
	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Day < report.Days[j].Day
	})

	return report, nil
}

func (t *Totals) add(record *Record) {
	t.Calls++
	t.InputTokens += record.InputTokens
	t.OutputTokens += record.OutputTokens
	t.TotalTokens += record.TotalTokens
}
