package pipeline

import "context"

// DefaultChunkSize bounds how many rows are screened between progress
// reports and cancellation checks.
const DefaultChunkSize = 100

// Progress is handed to the observer after each processed chunk. Processed
// grows monotonically up to Total.
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// ProgressFunc observes batch progress. It is purely informational; the
// return value of the batch never depends on it.
type ProgressFunc func(Progress)

// Runner drives the full screening pipeline over a parsed table.
type Runner struct {
	Classifier *Classifier
	ChunkSize  int
}

// NewRunner builds a runner with the default chunk size.
func NewRunner(classifier *Classifier) *Runner {
	return &Runner{Classifier: classifier, ChunkSize: DefaultChunkSize}
}

// Run maps, classifies, dedups and suppression-filters every row of the
// table. Rows missing an explicit name or website get both derived from the
// address. The context is checked between chunks so large batches can be
// abandoned cooperatively.
func (r *Runner) Run(ctx context.Context, table *Table, mapping Mapping, optOuts OptOutSets, defaults Defaults, onProgress ProgressFunc) ([]Record, Report, error) {
	if _, ok := mapping.EmailHeader(table.Headers); !ok {
		return nil, Report{}, ErrEmailNotMapped
	}

	chunkSize := r.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	screener := NewScreener(r.Classifier, optOuts, defaults)
	total := len(table.Rows)

	for start := 0; start < total; start += chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, screener.Report(), err
		}

		end := start + chunkSize
		if end > total {
			end = total
		}

		for _, row := range table.Rows[start:end] {
			rec := FromRow(row, mapping)
			if rec.Name == "" || rec.Website == "" {
				info := r.Classifier.Extract(rec.Email)
				if rec.Name == "" && info.Name != NameUnknown {
					rec.Name = info.Name
				}
				if rec.Website == "" {
					rec.Website = info.Website
				}
			}
			screener.Add(rec)
		}

		if onProgress != nil {
			onProgress(Progress{Processed: end, Total: total})
		}
	}

	return screener.Accepted(), screener.Report(), nil
}
