package services

import (
	"testing"
	"time"

	"oilrisk/internal/risk/risktest"
)

// scenarioData indexes the 24 month risktest scenario:
// months 0-7 Medium, 8-17 Low, 18-20 High, 21-23 Low; oil price 60+i.
// Alert ids 1-8 cover months 0-7, 9 month 8, 10-12 months 18-20, 13 month 21.
func scenarioData(t *testing.T) *Dataset {
	t.Helper()
	return NewDataset(risktest.Dataset(t))
}

func month(i int) time.Time {
	return risktest.Month(i)
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

