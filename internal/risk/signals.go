package risk

// SignalRecord is a monthly aggregate enriched with derived signals
type SignalRecord struct {
	MonthlyAggregate
	InventoryChg float64
	SentimentInv float64
}

// Value resolves both aggregated and derived fields
func (r SignalRecord) Value(f Field) float64 {
	switch f {
	case FieldInventoryChg:
		return r.InventoryChg
	case FieldSentimentInv:
		return r.SentimentInv
	default:
		return r.MonthlyAggregate.Value(f)
	}
}

// Fields returns aggregated and derived fields in one mapping
func (r SignalRecord) Fields() map[Field]float64 {
	fields := r.MonthlyAggregate.Fields()
	fields[FieldInventoryChg] = r.InventoryChg
	fields[FieldSentimentInv] = r.SentimentInv
	return fields
}

// DeriveSignals computes the month-over-month inventory change and the inverted
// sentiment series. Months must be in ascending order.
func DeriveSignals(months []MonthlyAggregate) []SignalRecord {
	out := make([]SignalRecord, len(months))
	for i, m := range months {
		out[i] = SignalRecord{
			MonthlyAggregate: m,
			InventoryChg:     inventoryChange(months, i),
			SentimentInv:     -m.Value(FieldSentiment),
		}
	}
	return out
}

func inventoryChange(months []MonthlyAggregate, i int) float64 {
	if i == 0 {
		return 0
	}
	prev := months[i-1].Value(FieldInventory)
	if prev == 0 {
		return 0
	}
	return (months[i].Value(FieldInventory) - prev) / prev * 100
}
