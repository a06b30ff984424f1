package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/entity"
	"github.com/mailista/contact-manager/api/internal/pipeline"
	"github.com/mailista/contact-manager/api/internal/repository"
)

// defaultMergePartSize is how many rows each merged output file holds.
const defaultMergePartSize = 50000

// MergeService combines several extraction lists into clean output parts.
type MergeService struct {
	optOuts    repository.OptOutRepository
	classifier *pipeline.Classifier
	partSize   int
}

// NewMergeService builds a merge service. partSize zero falls back to the
// default output size.
func NewMergeService(optOuts repository.OptOutRepository, classifier *pipeline.Classifier, partSize int) *MergeService {
	if partSize <= 0 {
		partSize = defaultMergePartSize
	}
	return &MergeService{optOuts: optOuts, classifier: classifier, partSize: partSize}
}

// Merge concatenates the given extraction lists, applies the selected
// cleanup passes and splits the survivors into bounded output parts.
// Suppression combines the stored list (when requested) with any pasted
// opt-out values sent along with the request.
func (s *MergeService) Merge(ctx context.Context, userID uuid.UUID, req dto.MergeRequest) (*dto.MergeResponse, error) {
	options := req.Options

	var optOutEmails, optOutDomains []string
	if options.ApplyStoredOptOuts {
		entries, err := s.optOuts.ListAll(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Kind == entity.OptOutKindDomain {
				optOutDomains = append(optOutDomains, entry.Value)
			} else {
				optOutEmails = append(optOutEmails, entry.Value)
			}
		}
	}
	for _, part := range optOutSeparators.Split(req.OptOutContent, -1) {
		value, kind, err := classifyOptOutValue(part)
		if err != nil {
			continue
		}
		if kind == entity.OptOutKindDomain {
			optOutDomains = append(optOutDomains, value)
		} else {
			optOutEmails = append(optOutEmails, value)
		}
	}
	applyOptOuts := options.ApplyStoredOptOuts || len(optOutEmails) > 0 || len(optOutDomains) > 0
	sets := pipeline.NewOptOutSets(optOutEmails, optOutDomains)

	var (
		report dto.MergeReport
		kept   [][]string
		seen   = make(map[string]struct{})
	)

	for _, content := range req.Contents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pipeline.DecodeText([]byte(content))
		if err != nil {
			return nil, err
		}
		table, err := pipeline.ParseHeadless(text, pipeline.ExtractionExportHeader)
		if err != nil {
			return nil, err
		}

		// A pasted extraction export starts with its header line; that line
		// is layout, not data.
		rows := table.Rows
		if len(rows) > 0 && isExtractionHeaderRow(rows[0]) {
			rows = rows[1:]
		}

		for _, row := range rows {
			report.TotalLines++

			email := strings.ToLower(strings.TrimSpace(row["email"]))
			switch s.classifier.Check(email) {
			case pipeline.Invalid:
				report.Invalid++
				continue
			case pipeline.Suspicious:
				if options.RemoveSuspicious {
					report.Suspicious++
					continue
				}
			}

			if options.RemoveDuplicates {
				if _, dup := seen[email]; dup {
					report.Duplicates++
					continue
				}
				seen[email] = struct{}{}
			}

			if options.RemoveMuseumDomains && isMuseumAddress(email) {
				report.Museum++
				continue
			}

			if applyOptOuts && sets.Blocks(email) {
				report.OptOut++
				continue
			}

			kept = append(kept, []string{
				email,
				strings.TrimSpace(row["name"]),
				strings.TrimSpace(row["country"]),
				strings.TrimSpace(row["state"]),
				strings.TrimSpace(row["city"]),
				strings.TrimSpace(row["website"]),
				strings.TrimSpace(row["profession"]),
				strings.TrimSpace(row["branch"]),
			})
			report.Kept++
		}
	}

	parts := s.split(kept)
	report.Parts = len(parts)

	return &dto.MergeResponse{Report: report, Parts: parts}, nil
}

func (s *MergeService) split(rows [][]string) []dto.MergePart {
	var parts []dto.MergePart
	for start := 0; start < len(rows); start += s.partSize {
		end := start + s.partSize
		if end > len(rows) {
			end = len(rows)
		}
		content := pipeline.WriteDelimited(pipeline.ExtractionExportHeader, rows[start:end], ';')
		parts = append(parts, dto.MergePart{
			Filename: fmt.Sprintf("merged_part_%02d.csv", len(parts)+1),
			Content:  string(content),
		})
	}
	return parts
}

// isExtractionHeaderRow reports whether a positional row is the extraction
// export header itself rather than a contact line.
func isExtractionHeaderRow(row pipeline.Row) bool {
	return strings.EqualFold(strings.TrimSpace(row["email"]), "email") &&
		strings.EqualFold(strings.TrimSpace(row["name"]), "name")
}

// isMuseumAddress flags institutional museum addresses, which bounce or
// complain at disproportionate rates on commercial sends.
func isMuseumAddress(email string) bool {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return false
	}
	if strings.HasSuffix(domain, ".museum") {
		return true
	}
	return strings.Contains(domain, "museu")
}
