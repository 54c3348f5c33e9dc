package stats

import (
	"math"
	"time"

	"github.com/glucolog/insights/pointer"
	"github.com/glucolog/insights/readings"
)

const (
	// Glucose band for time-in-range calculations, mg/dL. Readings exactly
	// on a bound count as in range.
	RangeLow  = 70.0
	RangeHigh = 180.0

	// Two stat values within this tolerance are considered unchanged.
	Tolerance = 0.01
)

// EventStats describes the glucose response around a single event.
type EventStats struct {
	GlucoseAtEvent *float64   `json:"glucoseAtEvent" bson:"glucoseAtEvent"`
	Min            *float64   `json:"min" bson:"min"`
	Max            *float64   `json:"max" bson:"max"`
	Avg            *float64   `json:"avg" bson:"avg"`
	Spike          *float64   `json:"spike" bson:"spike"`
	PeakTime       *time.Time `json:"peakTime" bson:"peakTime"`
	ReadingCount   int        `json:"readingCount" bson:"readingCount"`
}

// PeriodStats summarizes glucose control over an arbitrary window.
type PeriodStats struct {
	Min                   *float64   `json:"min" bson:"min"`
	Max                   *float64   `json:"max" bson:"max"`
	Avg                   *float64   `json:"avg" bson:"avg"`
	StdDev                *float64   `json:"stdDev" bson:"stdDev"`
	TimeInRangePercent    *float64   `json:"timeInRangePercent" bson:"timeInRangePercent"`
	TimeAboveRangePercent *float64   `json:"timeAboveRangePercent" bson:"timeAboveRangePercent"`
	TimeBelowRangePercent *float64   `json:"timeBelowRangePercent" bson:"timeBelowRangePercent"`
	ReadingCount          int        `json:"readingCount" bson:"readingCount"`
	FirstReading          *time.Time `json:"firstReading" bson:"firstReading"`
	LastReading           *time.Time `json:"lastReading" bson:"lastReading"`
}

// ComputeEventStats derives event statistics from the readings captured
// around it. The reading slice may be in any order. An empty slice yields
// the zero value.
func ComputeEventStats(rds []readings.Reading, eventTime time.Time) EventStats {
	result := EventStats{ReadingCount: len(rds)}
	if len(rds) == 0 {
		return result
	}

	// Nearest reading to the event instant; on equal distance the earliest
	// timestamp wins so results are stable under input order.
	nearest := rds[0]
	nearestDistance := absDuration(rds[0].Time.Sub(eventTime))
	for _, r := range rds[1:] {
		distance := absDuration(r.Time.Sub(eventTime))
		if distance < nearestDistance || (distance == nearestDistance && r.Time.Before(nearest.Time)) {
			nearest = r
			nearestDistance = distance
		}
	}

	min, max, sum := rds[0].Value, rds[0].Value, 0.0
	for _, r := range rds {
		if r.Value < min {
			min = r.Value
		}
		if r.Value > max {
			max = r.Value
		}
		sum += r.Value
	}

	result.GlucoseAtEvent = pointer.FromAny(nearest.Value)
	result.Min = pointer.FromAny(Round1(min))
	result.Max = pointer.FromAny(Round1(max))
	result.Avg = pointer.FromAny(Round1(sum / float64(len(rds))))

	// The spike only considers readings at or after the event instant. When
	// multiple readings share the peak value the earliest one is the peak.
	var peak *readings.Reading
	for i := range rds {
		r := rds[i]
		if r.Time.Before(eventTime) {
			continue
		}
		if peak == nil || r.Value > peak.Value || (r.Value == peak.Value && r.Time.Before(peak.Time)) {
			peak = &rds[i]
		}
	}
	if peak != nil {
		result.Spike = pointer.FromAny(Round1(peak.Value - nearest.Value))
		peakTime := peak.Time
		result.PeakTime = &peakTime
	}

	return result
}

// ComputePeriodStats summarizes an arbitrary window of readings. The reading
// slice may be in any order. An empty slice yields the zero value.
func ComputePeriodStats(rds []readings.Reading) PeriodStats {
	result := PeriodStats{ReadingCount: len(rds)}
	if len(rds) == 0 {
		return result
	}

	min, max, sum := rds[0].Value, rds[0].Value, 0.0
	first, last := rds[0].Time, rds[0].Time
	inRange, aboveRange, belowRange := 0, 0, 0
	for _, r := range rds {
		if r.Value < min {
			min = r.Value
		}
		if r.Value > max {
			max = r.Value
		}
		sum += r.Value

		if r.Time.Before(first) {
			first = r.Time
		}
		if r.Time.After(last) {
			last = r.Time
		}

		switch {
		case r.Value > RangeHigh:
			aboveRange++
		case r.Value < RangeLow:
			belowRange++
		default:
			inRange++
		}
	}

	count := float64(len(rds))
	mean := sum / count

	// Population standard deviation
	variance := 0.0
	for _, r := range rds {
		variance += (r.Value - mean) * (r.Value - mean)
	}
	variance /= count

	result.Min = pointer.FromAny(Round1(min))
	result.Max = pointer.FromAny(Round1(max))
	result.Avg = pointer.FromAny(Round1(mean))
	result.StdDev = pointer.FromAny(Round1(math.Sqrt(variance)))
	result.TimeInRangePercent = pointer.FromAny(Round1(float64(inRange) * 100 / count))
	result.TimeAboveRangePercent = pointer.FromAny(Round1(float64(aboveRange) * 100 / count))
	result.TimeBelowRangePercent = pointer.FromAny(Round1(float64(belowRange) * 100 / count))
	result.FirstReading = &first
	result.LastReading = &last

	return result
}

// WithFallback fills any missing stat with the value previously stored, so
// an analysis over a sparse window never erases stats computed earlier.
func (s EventStats) WithFallback(prev EventStats) EventStats {
	if s.GlucoseAtEvent == nil {
		s.GlucoseAtEvent = pointer.CopyFloat64(prev.GlucoseAtEvent)
	}
	if s.Min == nil {
		s.Min = pointer.CopyFloat64(prev.Min)
	}
	if s.Max == nil {
		s.Max = pointer.CopyFloat64(prev.Max)
	}
	if s.Avg == nil {
		s.Avg = pointer.CopyFloat64(prev.Avg)
	}
	if s.Spike == nil {
		s.Spike = pointer.CopyFloat64(prev.Spike)
	}
	if s.PeakTime == nil && prev.PeakTime != nil {
		peakTime := *prev.PeakTime
		s.PeakTime = &peakTime
	}
	return s
}

// ApproxEqual reports whether two stat sets are the same within Tolerance.
func (s EventStats) ApproxEqual(other EventStats) bool {
	if s.ReadingCount != other.ReadingCount {
		return false
	}
	if !NearlyEqual(s.GlucoseAtEvent, other.GlucoseAtEvent) ||
		!NearlyEqual(s.Min, other.Min) ||
		!NearlyEqual(s.Max, other.Max) ||
		!NearlyEqual(s.Avg, other.Avg) ||
		!NearlyEqual(s.Spike, other.Spike) {
		return false
	}
	return equalTimes(s.PeakTime, other.PeakTime)
}

// NearlyEqual reports whether two optional values are both absent or differ
// by at most Tolerance.
func NearlyEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return math.Abs(*a-*b) <= Tolerance
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func equalTimes(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
