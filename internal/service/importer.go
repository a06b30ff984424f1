package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/pipeline"
	"github.com/mailista/contact-manager/api/internal/repository"
)

// previewSampleSize is how many rows a preview returns for mapping review.
const previewSampleSize = 5

// extractListHeaders is the positional column layout of headerless
// extraction lists.
var extractListHeaders = []string{"email", "country", "state", "city", "profession", "branch"}

// Notifier announces finished batches to an external channel. Delivery is
// best effort; import results never depend on it.
type Notifier interface {
	ImportCompleted(ctx context.Context, userID uuid.UUID, report pipeline.Report)
}

// ImportService runs uploads through the screening pipeline and persists the
// survivors.
type ImportService struct {
	contacts    repository.ContactsRepository
	optOuts     repository.OptOutRepository
	runner      *pipeline.Runner
	notifier    Notifier
	logger      *zap.Logger
	phoneRegion string
	chunkSize   int
}

// NewImportService wires an import service. chunkSize bounds each upsert
// batch; zero falls back to bulkChunkSize.
func NewImportService(
	contacts repository.ContactsRepository,
	optOuts repository.OptOutRepository,
	classifier *pipeline.Classifier,
	notifier Notifier,
	logger *zap.Logger,
	phoneRegion string,
	chunkSize int,
) *ImportService {
	if chunkSize <= 0 {
		chunkSize = bulkChunkSize
	}
	if phoneRegion == "" {
		phoneRegion = defaultPhoneRegion
	}
	return &ImportService{
		contacts:    contacts,
		optOuts:     optOuts,
		runner:      pipeline.NewRunner(classifier),
		notifier:    notifier,
		logger:      logger,
		phoneRegion: phoneRegion,
		chunkSize:   chunkSize,
	}
}

// Preview parses an upload and guesses a column mapping so the caller can
// adjust it before committing the batch.
func (s *ImportService) Preview(ctx context.Context, content string) (*dto.PreviewResponse, error) {
	table, err := s.parse(content)
	if err != nil {
		return nil, err
	}

	mapping := pipeline.DefaultMapping(table.Headers)
	sample := table.Rows
	if len(sample) > previewSampleSize {
		sample = sample[:previewSampleSize]
	}

	return &dto.PreviewResponse{
		Headers:  table.Headers,
		Mapping:  mappingToStrings(mapping),
		RowCount: len(table.Rows),
		Sample:   sample,
	}, nil
}

// Import screens a mapped upload and upserts the surviving records. A
// persistence failure aborts the run; the returned report counts only the
// chunks committed before the failure, since the failed chunk rolls back.
func (s *ImportService) Import(ctx context.Context, userID uuid.UUID, req dto.ImportRequest) (pipeline.Report, error) {
	table, err := s.parse(req.Content)
	if err != nil {
		return pipeline.Report{}, err
	}

	mapping := s.mapping(req.Mapping, table.Headers)
	sets, err := loadOptOutSets(ctx, s.optOuts, userID)
	if err != nil {
		return pipeline.Report{}, err
	}

	records, report, err := s.runner.Run(ctx, table, mapping, sets, req.Defaults, s.logProgress(userID))
	if err != nil {
		return report, err
	}

	if err := s.persist(ctx, userID, records, &report); err != nil {
		return report, err
	}

	s.notify(ctx, userID, report)
	return report, nil
}

// ImportRecords persists records that were already extracted, screening them
// the same way a fresh upload would be.
func (s *ImportService) ImportRecords(ctx context.Context, userID uuid.UUID, req dto.ImportRecordsRequest) (pipeline.Report, error) {
	sets, err := loadOptOutSets(ctx, s.optOuts, userID)
	if err != nil {
		return pipeline.Report{}, err
	}

	screener := pipeline.NewScreener(s.runner.Classifier, sets, req.Defaults)
	for _, rec := range req.Records {
		screener.Add(rec)
	}

	report := screener.Report()
	if err := s.persist(ctx, userID, screener.Accepted(), &report); err != nil {
		return report, err
	}

	s.notify(ctx, userID, report)
	return report, nil
}

// Enrich fills empty name and website fields from each row's address without
// touching the stored base. Rows are returned in input order, nothing is
// dropped.
func (s *ImportService) Enrich(ctx context.Context, content string, headerMapping map[string]string) (*dto.ExtractResponse, error) {
	table, err := s.parse(content)
	if err != nil {
		return nil, err
	}

	mapping := s.mapping(headerMapping, table.Headers)
	if _, ok := mapping.EmailHeader(table.Headers); !ok {
		return nil, pipeline.ErrEmailNotMapped
	}

	stats := dto.ExtractStats{TotalLines: len(table.Rows)}
	records := make([]pipeline.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := pipeline.FromRow(row, mapping)
		if rec.Name == "" || rec.Website == "" {
			info := s.runner.Classifier.Extract(rec.Email)
			if rec.Name == "" && info.Name != pipeline.NameUnknown {
				rec.Name = info.Name
			}
			if rec.Website == "" {
				rec.Website = info.Website
			}
		}
		if rec.Name == "" {
			rec.Name = pipeline.NameUnknown
			stats.FailedNames++
		} else {
			stats.ExtractedNames++
		}
		stats.ProcessedEmails++
		records = append(records, rec)
	}

	return &dto.ExtractResponse{Records: records, Stats: stats}, nil
}

// Extract screens a headerless positional list and derives names and
// websites for every accepted address.
func (s *ImportService) Extract(ctx context.Context, req dto.ExtractRequest) (*dto.ExtractResponse, error) {
	text, err := pipeline.DecodeText([]byte(req.Content))
	if err != nil {
		return nil, err
	}
	table, err := pipeline.ParseHeadless(text, extractListHeaders)
	if err != nil {
		return nil, err
	}

	mapping := make(pipeline.Mapping, len(extractListHeaders))
	for _, header := range extractListHeaders {
		mapping[header] = pipeline.Field(header)
	}

	records, report, err := s.runner.Run(ctx, table, mapping, pipeline.NewOptOutSets(nil, nil), req.Defaults, nil)
	if err != nil {
		return nil, err
	}

	stats := dto.ExtractStats{
		TotalLines:      report.Total,
		ProcessedEmails: report.Processed,
		Duplicates:      report.Duplicates,
		Suspicious:      report.Suspicious,
		Invalid:         report.Invalid,
	}
	for i := range records {
		if records[i].Name == "" {
			records[i].Name = pipeline.NameUnknown
			stats.FailedNames++
		} else {
			stats.ExtractedNames++
		}
	}

	return &dto.ExtractResponse{Records: records, Stats: stats}, nil
}

// ExtractExport renders extracted records as a semicolon-delimited download.
func (s *ImportService) ExtractExport(records []pipeline.Record) []byte {
	return pipeline.WriteDelimited(pipeline.ExtractionExportHeader, pipeline.ExtractionRows(records), ';')
}

func (s *ImportService) parse(content string) (*pipeline.Table, error) {
	text, err := pipeline.DecodeText([]byte(content))
	if err != nil {
		return nil, err
	}
	return pipeline.Parse(text)
}

// mapping converts the caller's header associations, falling back to the
// guessed mapping when none were sent.
func (s *ImportService) mapping(overrides map[string]string, headers []string) pipeline.Mapping {
	if len(overrides) == 0 {
		return pipeline.DefaultMapping(headers)
	}
	mapping := make(pipeline.Mapping, len(overrides))
	for header, field := range overrides {
		mapping[header] = pipeline.Field(field)
	}
	return mapping
}

func (s *ImportService) persist(ctx context.Context, userID uuid.UUID, records []pipeline.Record, report *pipeline.Report) error {
	inputs := make([]repository.ContactUpsertInput, 0, len(records))
	for _, rec := range records {
		inputs = append(inputs, s.upsertInput(rec))
	}

	for start := 0; start < len(inputs); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(inputs) {
			end = len(inputs)
		}
		result, err := s.contacts.BulkUpsert(ctx, userID, inputs[start:end])
		if err != nil {
			return fmt.Errorf("persist batch at row %d: %w", start, err)
		}
		report.Inserted += result.Inserted
		report.Updated += result.Updated
	}
	return nil
}

// upsertInput converts a screened record into its storage form. Phones are
// normalised to E.164 when they parse; unparseable values are kept verbatim.
func (s *ImportService) upsertInput(rec pipeline.Record) repository.ContactUpsertInput {
	phone := rec.Phone
	if normalized := normalizePhone(phone, s.phoneRegion); normalized != "" {
		phone = normalized
	}
	return repository.ContactUpsertInput{
		Email:      rec.Email,
		Name:       optional(rec.Name),
		Phone:      optional(phone),
		Country:    optional(rec.Country),
		State:      optional(rec.State),
		City:       optional(rec.City),
		Website:    optional(rec.Website),
		Profession: optional(rec.Profession),
		Branch:     optional(rec.Branch),
	}
}

func (s *ImportService) logProgress(userID uuid.UUID) pipeline.ProgressFunc {
	if s.logger == nil {
		return nil
	}
	return func(p pipeline.Progress) {
		s.logger.Debug("import progress",
			zap.String("user_id", userID.String()),
			zap.Int("processed", p.Processed),
			zap.Int("total", p.Total),
		)
	}
}

func (s *ImportService) notify(ctx context.Context, userID uuid.UUID, report pipeline.Report) {
	if s.notifier == nil {
		return
	}
	s.notifier.ImportCompleted(ctx, userID, report)
}

func mappingToStrings(mapping pipeline.Mapping) map[string]string {
	out := make(map[string]string, len(mapping))
	for header, field := range mapping {
		out[header] = string(field)
	}
	return out
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
