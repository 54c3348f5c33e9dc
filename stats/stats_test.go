package stats_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/glucolog/insights/pointer"
	"github.com/glucolog/insights/readings"
	"github.com/glucolog/insights/stats"
	"github.com/glucolog/insights/test"
)

var _ = Describe("ComputeEventStats", func() {
	var eventTime time.Time

	BeforeEach(func() {
		eventTime = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
	})

	reading := func(value float64, offset time.Duration) readings.Reading {
		return readings.Reading{Value: value, Time: eventTime.Add(offset)}
	}

	It("returns the zero value for an empty reading set", func() {
		result := stats.ComputeEventStats(nil, eventTime)

		Expect(result.GlucoseAtEvent).To(BeNil())
		Expect(result.Min).To(BeNil())
		Expect(result.Max).To(BeNil())
		Expect(result.Avg).To(BeNil())
		Expect(result.Spike).To(BeNil())
		Expect(result.PeakTime).To(BeNil())
		Expect(result.ReadingCount).To(Equal(0))
	})

	It("picks the reading nearest to the event instant", func() {
		rds := []readings.Reading{
			reading(110, -2*time.Minute),
			reading(100, -30*time.Minute),
			reading(115, 3*time.Minute),
			reading(140, 30*time.Minute),
			reading(130, 60*time.Minute),
		}

		result := stats.ComputeEventStats(rds, eventTime)

		Expect(result.GlucoseAtEvent).To(Equal(pointer.FromAny(110.0)))
		Expect(result.Min).To(Equal(pointer.FromAny(100.0)))
		Expect(result.Max).To(Equal(pointer.FromAny(140.0)))
		Expect(result.ReadingCount).To(Equal(5))
	})

	It("computes the spike from readings at or after the event instant", func() {
		rds := []readings.Reading{
			reading(100, -15*time.Minute),
			reading(105, 0),
			reading(130, 30*time.Minute),
			reading(120, 60*time.Minute),
		}

		result := stats.ComputeEventStats(rds, eventTime)

		Expect(result.GlucoseAtEvent).To(Equal(pointer.FromAny(105.0)))
		Expect(result.Spike).To(Equal(pointer.FromAny(25.0)))
		Expect(result.PeakTime).ToNot(BeNil())
		Expect(*result.PeakTime).To(BeTemporally("==", eventTime.Add(30*time.Minute)))
	})

	It("leaves the spike unset when no readings fall at or after the event", func() {
		rds := []readings.Reading{
			reading(100, -30*time.Minute),
			reading(180, -10*time.Minute),
			reading(110, -2*time.Minute),
		}

		result := stats.ComputeEventStats(rds, eventTime)

		Expect(result.Spike).To(BeNil())
		Expect(result.PeakTime).To(BeNil())
		Expect(result.GlucoseAtEvent).To(Equal(pointer.FromAny(110.0)))
		Expect(result.Max).To(Equal(pointer.FromAny(180.0)))
	})

	It("allows a negative spike when glucose declines after the event", func() {
		rds := []readings.Reading{
			reading(150, 0),
			reading(130, 20*time.Minute),
			reading(120, 40*time.Minute),
		}

		result := stats.ComputeEventStats(rds, eventTime)

		Expect(result.Spike).To(Equal(pointer.FromAny(-20.0)))
		Expect(*result.PeakTime).To(BeTemporally("==", eventTime.Add(20*time.Minute)))
	})

	It("breaks nearest-reading ties with the earlier timestamp", func() {
		rds := []readings.Reading{
			reading(200, 5*time.Minute),
			reading(100, -5*time.Minute),
		}

		result := stats.ComputeEventStats(rds, eventTime)

		Expect(result.GlucoseAtEvent).To(Equal(pointer.FromAny(100.0)))
	})

	It("breaks peak ties with the earlier timestamp", func() {
		rds := []readings.Reading{
			reading(110, 0),
			reading(150, 20*time.Minute),
			reading(150, 10*time.Minute),
		}

		result := stats.ComputeEventStats(rds, eventTime)

		Expect(*result.PeakTime).To(BeTemporally("==", eventTime.Add(10*time.Minute)))
	})

	It("rounds the average to one decimal", func() {
		rds := []readings.Reading{
			reading(100, -10*time.Minute),
			reading(100, 10*time.Minute),
			reading(101, 20*time.Minute),
		}

		result := stats.ComputeEventStats(rds, eventTime)

		Expect(result.Avg).To(Equal(pointer.FromAny(100.3)))
	})

	It("does not depend on input order", func() {
		rds := []readings.Reading{
			reading(110, -2*time.Minute),
			reading(100, -30*time.Minute),
			reading(115, 3*time.Minute),
			reading(140, 30*time.Minute),
			reading(130, 60*time.Minute),
		}
		shuffled := make([]readings.Reading, len(rds))
		copy(shuffled, rds)
		test.Rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		Expect(stats.ComputeEventStats(shuffled, eventTime)).To(Equal(stats.ComputeEventStats(rds, eventTime)))
	})

	It("keeps the average between min and max", func() {
		count := 20 + test.Rand.Intn(50)
		rds := make([]readings.Reading, count)
		for i := range rds {
			rds[i] = reading(float64(40+test.Rand.Intn(360)), time.Duration(i-count/2)*time.Minute)
		}

		result := stats.ComputeEventStats(rds, eventTime)

		Expect(*result.Avg).To(BeNumerically(">=", *result.Min))
		Expect(*result.Avg).To(BeNumerically("<=", *result.Max))
	})
})

var _ = Describe("ComputePeriodStats", func() {
	base := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

	reading := func(value float64, offset time.Duration) readings.Reading {
		return readings.Reading{Value: value, Time: base.Add(offset)}
	}

	It("returns the zero value for an empty reading set", func() {
		result := stats.ComputePeriodStats(nil)

		Expect(result.Min).To(BeNil())
		Expect(result.Max).To(BeNil())
		Expect(result.Avg).To(BeNil())
		Expect(result.StdDev).To(BeNil())
		Expect(result.TimeInRangePercent).To(BeNil())
		Expect(result.FirstReading).To(BeNil())
		Expect(result.LastReading).To(BeNil())
		Expect(result.ReadingCount).To(Equal(0))
	})

	It("computes range percentages over the fixed 70-180 band", func() {
		rds := []readings.Reading{
			reading(55, 1*time.Hour),
			reading(65, 2*time.Hour),
			reading(70, 3*time.Hour),
			reading(120, 4*time.Hour),
			reading(150, 5*time.Hour),
			reading(180, 6*time.Hour),
			reading(181, 7*time.Hour),
			reading(200, 8*time.Hour),
			reading(220, 9*time.Hour),
			reading(250, 10*time.Hour),
		}

		result := stats.ComputePeriodStats(rds)

		Expect(result.TimeBelowRangePercent).To(Equal(pointer.FromAny(20.0)))
		Expect(result.TimeInRangePercent).To(Equal(pointer.FromAny(40.0)))
		Expect(result.TimeAboveRangePercent).To(Equal(pointer.FromAny(40.0)))
		Expect(result.ReadingCount).To(Equal(10))
	})

	It("accepts rounding drift across the three percentages", func() {
		rds := []readings.Reading{
			reading(60, 1*time.Hour),
			reading(120, 2*time.Hour),
			reading(200, 3*time.Hour),
		}

		result := stats.ComputePeriodStats(rds)

		Expect(result.TimeBelowRangePercent).To(Equal(pointer.FromAny(33.3)))
		Expect(result.TimeInRangePercent).To(Equal(pointer.FromAny(33.3)))
		Expect(result.TimeAboveRangePercent).To(Equal(pointer.FromAny(33.3)))
	})

	It("computes the population standard deviation", func() {
		rds := []readings.Reading{
			reading(102, 1*time.Hour),
			reading(104, 2*time.Hour),
			reading(104, 3*time.Hour),
			reading(104, 4*time.Hour),
			reading(105, 5*time.Hour),
			reading(105, 6*time.Hour),
			reading(107, 7*time.Hour),
			reading(109, 8*time.Hour),
		}

		result := stats.ComputePeriodStats(rds)

		Expect(result.Avg).To(Equal(pointer.FromAny(105.0)))
		Expect(result.StdDev).To(Equal(pointer.FromAny(2.0)))
	})

	It("reports zero deviation for identical values", func() {
		rds := []readings.Reading{
			reading(120, 1*time.Hour),
			reading(120, 2*time.Hour),
			reading(120, 3*time.Hour),
		}

		result := stats.ComputePeriodStats(rds)

		Expect(result.StdDev).To(Equal(pointer.FromAny(0.0)))
	})

	It("finds the first and last reading in unsorted input", func() {
		rds := []readings.Reading{
			reading(120, 5*time.Hour),
			reading(110, 1*time.Hour),
			reading(130, 9*time.Hour),
			reading(115, 3*time.Hour),
		}

		result := stats.ComputePeriodStats(rds)

		Expect(*result.FirstReading).To(BeTemporally("==", base.Add(1*time.Hour)))
		Expect(*result.LastReading).To(BeTemporally("==", base.Add(9*time.Hour)))
	})
})

var _ = Describe("NearlyEqual", func() {
	It("treats two absent values as equal", func() {
		Expect(stats.NearlyEqual(nil, nil)).To(BeTrue())
	})

	It("treats an absent and a present value as different", func() {
		Expect(stats.NearlyEqual(nil, pointer.FromAny(100.0))).To(BeFalse())
		Expect(stats.NearlyEqual(pointer.FromAny(100.0), nil)).To(BeFalse())
	})

	It("accepts values within the tolerance", func() {
		Expect(stats.NearlyEqual(pointer.FromAny(100.0), pointer.FromAny(100.009))).To(BeTrue())
	})

	It("rejects values outside the tolerance", func() {
		Expect(stats.NearlyEqual(pointer.FromAny(100.0), pointer.FromAny(100.02))).To(BeFalse())
	})
})

var _ = Describe("EventStats", func() {
	eventTime := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

	Describe("ApproxEqual", func() {
		It("ignores differences within the tolerance", func() {
			a := stats.EventStats{
				GlucoseAtEvent: pointer.FromAny(110.0),
				Min:            pointer.FromAny(100.0),
				Max:            pointer.FromAny(140.0),
				Avg:            pointer.FromAny(119.0),
				Spike:          pointer.FromAny(30.0),
				PeakTime:       pointer.FromAny(eventTime),
				ReadingCount:   5,
			}
			b := a
			b.Avg = pointer.FromAny(119.005)

			Expect(a.ApproxEqual(b)).To(BeTrue())
		})

		It("detects a changed stat", func() {
			a := stats.EventStats{Avg: pointer.FromAny(119.0), ReadingCount: 5}
			b := stats.EventStats{Avg: pointer.FromAny(121.3), ReadingCount: 5}

			Expect(a.ApproxEqual(b)).To(BeFalse())
		})

		It("detects a changed reading count", func() {
			a := stats.EventStats{ReadingCount: 5}
			b := stats.EventStats{ReadingCount: 6}

			Expect(a.ApproxEqual(b)).To(BeFalse())
		})

		It("detects a changed peak time", func() {
			a := stats.EventStats{PeakTime: pointer.FromAny(eventTime)}
			b := stats.EventStats{PeakTime: pointer.FromAny(eventTime.Add(time.Minute))}

			Expect(a.ApproxEqual(b)).To(BeFalse())
		})
	})

	Describe("WithFallback", func() {
		It("fills missing stats from the previous values", func() {
			prev := stats.EventStats{
				GlucoseAtEvent: pointer.FromAny(110.0),
				Min:            pointer.FromAny(100.0),
				Max:            pointer.FromAny(140.0),
				Avg:            pointer.FromAny(119.0),
				Spike:          pointer.FromAny(30.0),
				PeakTime:       pointer.FromAny(eventTime),
				ReadingCount:   5,
			}

			merged := stats.EventStats{}.WithFallback(prev)

			Expect(merged.GlucoseAtEvent).To(Equal(prev.GlucoseAtEvent))
			Expect(merged.Min).To(Equal(prev.Min))
			Expect(merged.Max).To(Equal(prev.Max))
			Expect(merged.Avg).To(Equal(prev.Avg))
			Expect(merged.Spike).To(Equal(prev.Spike))
			Expect(merged.PeakTime).To(Equal(prev.PeakTime))
			Expect(merged.ReadingCount).To(Equal(0))
		})

		It("keeps freshly computed stats", func() {
			prev := stats.EventStats{Avg: pointer.FromAny(119.0)}
			fresh := stats.EventStats{Avg: pointer.FromAny(125.0), ReadingCount: 3}

			merged := fresh.WithFallback(prev)

			Expect(merged.Avg).To(Equal(pointer.FromAny(125.0)))
			Expect(merged.ReadingCount).To(Equal(3))
		})
	})
})
