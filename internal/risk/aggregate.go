package risk

import (
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// MonthlyAggregate holds the per-month mean of every source field
type MonthlyAggregate struct {
	Month  time.Time
	fields map[Field]float64
}

// Value returns the aggregated value of a source field
func (a MonthlyAggregate) Value(f Field) float64 {
	return a.fields[f]
}

// Fields returns a copy of the aggregated field mapping
func (a MonthlyAggregate) Fields() map[Field]float64 {
	cp := make(map[Field]float64, len(a.fields))
	for k, v := range a.fields {
		cp[k] = v
	}
	return cp
}

// monthBucket collects the non-null daily values of one month
type monthBucket map[Field][]float64

// Aggregate groups observations by calendar month and averages each source field.
// Months with no observation for a field carry the last month that produced a mean,
// or 0 when no such month exists. Observations outside the window are dropped, and
// NaN or infinite values count as absent.
func Aggregate(observations []Observation) ([]MonthlyAggregate, error) {
	buckets := make(map[time.Time]monthBucket)
	for _, obs := range observations {
		if !InWindow(obs.Date) {
			continue
		}
		key := monthOf(obs.Date)
		bucket, ok := buckets[key]
		if !ok {
			bucket = make(monthBucket)
			buckets[key] = bucket
		}
		for _, f := range SourceFields {
			if v, ok := obs.Value(f); ok && isFinite(v) {
				bucket[f] = append(bucket[f], v)
			}
		}
	}

	if len(buckets) == 0 {
		return nil, ErrNoObservations
	}

	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	lastKnown := make(map[Field]float64, len(SourceFields))
	out := make([]MonthlyAggregate, 0, len(months))
	for _, month := range months {
		bucket := buckets[month]
		fields := make(map[Field]float64, len(SourceFields))
		for _, f := range SourceFields {
			values := bucket[f]
			if len(values) > 0 {
				mean, err := stats.Mean(values)
				if err != nil {
					return nil, fmt.Errorf("mean of %s for %s: %w", f, month.Format("2006-01"), err)
				}
				if !isFinite(mean) {
					// the sum overflowed; carry the previous month instead
					fields[f] = lastKnown[f]
					continue
				}
				fields[f] = mean
				lastKnown[f] = mean
				continue
			}
			// zero value when the field has never been observed
			fields[f] = lastKnown[f]
		}
		out = append(out, MonthlyAggregate{Month: month, fields: fields})
	}

	return out, nil
}
