package dto

import "github.com/mailista/contact-manager/api/internal/pipeline"

// PreviewRequest carries the raw upload content for mapping detection.
type PreviewRequest struct {
	Content string `json:"content"`
}

// PreviewResponse is returned after parsing an upload so the caller can
// adjust the column mapping before running the batch.
type PreviewResponse struct {
	Headers  []string          `json:"headers"`
	Mapping  map[string]string `json:"mapping"`
	RowCount int               `json:"row_count"`
	Sample   []pipeline.Row    `json:"sample"`
}

// ImportRequest runs a mapped batch through the pipeline and persists it.
type ImportRequest struct {
	Content  string            `json:"content"`
	Mapping  map[string]string `json:"mapping"`
	Defaults pipeline.Defaults `json:"defaults"`
}

// EnrichRequest fills missing name and website fields on a mapped upload
// without persisting anything.
type EnrichRequest struct {
	Content string            `json:"content"`
	Mapping map[string]string `json:"mapping"`
}

// ExtractRequest runs the name extractor over a headerless positional list
// (email;country;state;city;profession;branch).
type ExtractRequest struct {
	Content  string            `json:"content"`
	Defaults pipeline.Defaults `json:"defaults"`
}

// ExtractResponse carries the derived records plus extraction statistics.
type ExtractResponse struct {
	Records []pipeline.Record `json:"records"`
	Stats   ExtractStats      `json:"stats"`
}

// ExtractStats summarises one extraction run.
type ExtractStats struct {
	TotalLines      int `json:"total_lines"`
	ProcessedEmails int `json:"processed_emails"`
	Duplicates      int `json:"duplicates"`
	Suspicious      int `json:"suspicious"`
	Invalid         int `json:"invalid"`
	ExtractedNames  int `json:"extracted_names"`
	FailedNames     int `json:"failed_names"`
}

// ExtractExportRequest renders previously extracted records as a download.
type ExtractExportRequest struct {
	Records []pipeline.Record `json:"records"`
}

// ImportRecordsRequest persists records that were already extracted or
// enriched client-side, applying suppression on the way in.
type ImportRecordsRequest struct {
	Records  []pipeline.Record `json:"records"`
	Defaults pipeline.Defaults `json:"defaults"`
}
