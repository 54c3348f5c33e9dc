package usage_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	settingsTest "github.com/glucolog/insights/settings/test"
	"github.com/glucolog/insights/store"
	"github.com/glucolog/insights/usage"
	usageTest "github.com/glucolog/insights/usage/test"
)

func usageRecord(model string, input, output int64, created time.Time) *usage.Record {
	record := usageTest.RandomRecord()
	record.Model = model
	record.InputTokens = input
	record.OutputTokens = output
	record.TotalTokens = input + output
	record.CreatedTime = created
	return &record
}

var _ = Describe("Usage Service", func() {
	var service usage.Service
	var repo *usageTest.MockRepository
	var settingsService *settingsTest.MockService
	var ctrl *gomock.Controller

	var start, end time.Time

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = usageTest.NewMockRepository(ctrl)
		settingsService = settingsTest.NewMockService(ctrl)

		var err error
		service, err = usage.NewService(repo, usage.DefaultPriceTable(), settingsService, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())

		start = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		end = start.Add(7 * 24 * time.Hour)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	expectSnapshot := func(timeZone string) {
		snapshot := settingsTest.RandomSettings()
		snapshot.TimeZone = timeZone
		settingsService.EXPECT().Current(gomock.Any()).Return(&snapshot, nil)
	}

	When("the window fits in one page", func() {
		BeforeEach(func() {
			expectSnapshot("UTC")
			records := []*usage.Record{
				usageRecord("gpt-4o-mini", 1000, 500, start.Add(10*time.Hour)),
				usageRecord("gpt-4o-mini", 2000, 1000, start.Add(18*time.Hour)),
				usageRecord("gpt-4o", 1_000_000, 0, start.Add(33*time.Hour)),
			}
			repo.EXPECT().
				List(gomock.Any(), gomock.Eq(&usage.Filter{From: &start, To: &end}), gomock.Any()).
				Return(records, nil)
		})

		It("aggregates totals across all rows", func() {
			report, err := service.Report(context.Background(), start, end)
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Totals.Calls).To(Equal(3))
			Expect(report.Totals.InputTokens).To(Equal(int64(1_003_000)))
			Expect(report.Totals.OutputTokens).To(Equal(int64(1500)))
			Expect(report.Totals.TotalTokens).To(Equal(int64(1_004_500)))
			Expect(report.Totals.CostUSD).To(BeNumerically("~", 2.50135, 1e-9))
		})

		It("breaks totals down by model", func() {
			report, err := service.Report(context.Background(), start, end)
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Models).To(HaveLen(2))
			Expect(report.Models[0].Model).To(Equal("gpt-4o"))
			Expect(report.Models[0].Calls).To(Equal(1))
			Expect(report.Models[0].CostUSD).To(BeNumerically("~", 2.50, 1e-9))
			Expect(report.Models[1].Model).To(Equal("gpt-4o-mini"))
			Expect(report.Models[1].Calls).To(Equal(2))
			Expect(report.Models[1].CostUSD).To(BeNumerically("~", 0.00135, 1e-9))
		})

		It("breaks totals down by day", func() {
			report, err := service.Report(context.Background(), start, end)
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Days).To(HaveLen(2))
			Expect(report.Days[0].Day).To(Equal("2025-03-01"))
			Expect(report.Days[0].Calls).To(Equal(2))
			Expect(report.Days[1].Day).To(Equal("2025-03-02"))
			Expect(report.Days[1].Calls).To(Equal(1))
		})

		It("prices every row individually", func() {
			report, err := service.Report(context.Background(), start, end)
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Rows).To(HaveLen(3))
			Expect(report.Rows[0].CostUSD).To(BeNumerically("~", 0.00045, 1e-12))
			Expect(report.Rows[2].CostUSD).To(BeNumerically("~", 2.50, 1e-9))
		})

		It("echoes the window and time zone", func() {
			report, err := service.Report(context.Background(), start, end)
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Start).To(Equal(start))
			Expect(report.End).To(Equal(end))
			Expect(report.TimeZone).To(Equal("UTC"))
		})
	})

	When("the reporting time zone is not UTC", func() {
		BeforeEach(func() {
			expectSnapshot("America/New_York")
			records := []*usage.Record{
				usageRecord("gpt-4o-mini", 1000, 500, time.Date(2025, time.March, 2, 2, 0, 0, 0, time.UTC)),
			}
			repo.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(records, nil)
		})

		It("buckets days in the configured zone", func() {
			report, err := service.Report(context.Background(), start, end)
			Expect(err).ToNot(HaveOccurred())
			Expect(report.TimeZone).To(Equal("America/New_York"))
			Expect(report.Days).To(HaveLen(1))
			Expect(report.Days[0].Day).To(Equal("2025-03-01"))
		})
	})

	When("the window spans multiple pages", func() {
		BeforeEach(func() {
			expectSnapshot("UTC")
			first := make([]*usage.Record, 500)
			for i := range first {
				first[i] = usageRecord("gpt-4o-mini", 100, 10, start.Add(time.Duration(i)*time.Minute))
			}
			second := []*usage.Record{
				usageRecord("gpt-4o-mini", 100, 10, start.Add(30*time.Hour)),
			}
			gomock.InOrder(
				repo.EXPECT().
					List(gomock.Any(), gomock.Any(), gomock.Eq(store.DefaultPagination().WithLimit(500))).
					Return(first, nil),
				repo.EXPECT().
					List(gomock.Any(), gomock.Any(), gomock.Eq(store.DefaultPagination().WithLimit(500).WithOffset(500))).
					Return(second, nil),
			)
		})

		It("pages through the full window", func() {
			report, err := service.Report(context.Background(), start, end)
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Totals.Calls).To(Equal(501))
			Expect(report.Rows).To(HaveLen(501))
		})
	})

	When("the reporting time zone cannot be resolved", func() {
		BeforeEach(func() {
			expectSnapshot("Not/AZone")
		})

		It("returns an error without reading any records", func() {
			_, err := service.Report(context.Background(), start, end)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("reporting time zone"))
		})
	})
})
