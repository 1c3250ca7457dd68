package cup

const (
	singleBatchLimit = 100
	smallBatchLimit  = 500
	mediumBatchLimit = 2000

	smallBatchSize  = 100
	mediumBatchSize = 200
	// MaxBatchSize stays under typical bulk-write limits.
	MaxBatchSize = 250
)

// BatchSize picks the batch size for a write of total records.
func BatchSize(total int) int {
	switch {
	case total <= 0:
		return 0
	case total <= singleBatchLimit:
		return total
	case total <= smallBatchLimit:
		return smallBatchSize
	case total <= mediumBatchLimit:
		return mediumBatchSize
	default:
		return MaxBatchSize
	}
}

// SplitBatches partitions records into consecutive batches of at most size records.
func SplitBatches(records []PointsRecord, size int) [][]PointsRecord {
	if len(records) == 0 {
		return nil
	}
	if size <= 0 || size > len(records) {
		size = len(records)
	}

	out := make([][]PointsRecord, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[start:end])
	}
	return out
}
