package settings_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/glucolog/insights/errors"
	"github.com/glucolog/insights/pointer"
	"github.com/glucolog/insights/settings"
	settingsTest "github.com/glucolog/insights/settings/test"
)

var _ = Describe("Settings Service", func() {
	var service settings.Service
	var repo *settingsTest.MockRepository
	var ctrl *gomock.Controller

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = settingsTest.NewMockRepository(ctrl)

		var err error
		service, err = settings.NewService(repo, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Describe("Current", func() {
		It("returns the defaults when nothing is stored", func() {
			repo.EXPECT().Get(gomock.Any()).Return(nil, nil)

			current, err := service.Current(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(current).ToNot(BeNil())
			Expect(current.IsConfigured()).To(BeFalse())
			Expect(current.Model).To(Equal(settings.DefaultModel))
			Expect(current.MaxTokens).To(Equal(settings.DefaultMaxTokens))
			Expect(current.TimeZone).To(Equal(settings.DefaultTimeZone))
			Expect(current.TargetLow).To(Equal(settings.DefaultTargetLow))
			Expect(current.TargetHigh).To(Equal(settings.DefaultTargetHigh))
		})

		It("returns the stored snapshot", func() {
			stored := settingsTest.RandomSettings()
			repo.EXPECT().Get(gomock.Any()).Return(&stored, nil)

			current, err := service.Current(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(*current).To(Equal(stored))
		})
	})

	Describe("Update", func() {
		var stored settings.AnalysisSettings

		BeforeEach(func() {
			stored = settingsTest.RandomSettings()
			repo.EXPECT().Get(gomock.Any()).Return(&stored, nil).AnyTimes()
		})

		It("merges only the provided fields", func() {
			var upserted settings.AnalysisSettings
			repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, snapshot settings.AnalysisSettings) (*settings.AnalysisSettings, error) {
					upserted = snapshot
					return &snapshot, nil
				})

			updated, err := service.Update(context.Background(), settings.Update{
				Model:     pointer.FromAny("gpt-4.1"),
				MaxTokens: pointer.FromAny(2000),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Model).To(Equal("gpt-4.1"))
			Expect(updated.MaxTokens).To(Equal(2000))
			Expect(upserted.APIKey).To(Equal(stored.APIKey))
			Expect(upserted.TimeZone).To(Equal(stored.TimeZone))
			Expect(upserted.TargetLow).To(Equal(stored.TargetLow))
			Expect(upserted.UpdatedTime).ToNot(BeNil())
			Expect(*upserted.UpdatedTime).To(BeTemporally("~", time.Now(), time.Second))
		})

		It("deconfigures analysis when the key is set to empty", func() {
			repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, snapshot settings.AnalysisSettings) (*settings.AnalysisSettings, error) {
					return &snapshot, nil
				})

			updated, err := service.Update(context.Background(), settings.Update{
				APIKey: pointer.FromAny(""),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.IsConfigured()).To(BeFalse())
		})

		It("rejects an empty model", func() {
			_, err := service.Update(context.Background(), settings.Update{
				Model: pointer.FromAny(""),
			})
			Expect(err).To(MatchError(settings.ErrInvalidModel))
			Expect(err).To(MatchError(errors.BadRequest))
		})

		It("rejects a token budget outside the allowed range", func() {
			_, err := service.Update(context.Background(), settings.Update{
				MaxTokens: pointer.FromAny(0),
			})
			Expect(err).To(MatchError(settings.ErrInvalidMaxTokens))

			_, err = service.Update(context.Background(), settings.Update{
				MaxTokens: pointer.FromAny(100000),
			})
			Expect(err).To(MatchError(settings.ErrInvalidMaxTokens))
		})

		It("rejects an unknown time zone", func() {
			_, err := service.Update(context.Background(), settings.Update{
				TimeZone: pointer.FromAny("Not/AZone"),
			})
			Expect(err).To(MatchError(settings.ErrInvalidTimeZone))
		})

		It("rejects an inverted target range", func() {
			_, err := service.Update(context.Background(), settings.Update{
				TargetLow:  pointer.FromAny(200.0),
				TargetHigh: pointer.FromAny(100.0),
			})
			Expect(err).To(MatchError(settings.ErrInvalidTargets))
		})
	})
})
