package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/critcoin/critcoin-api/internal/models"
	appErrors "github.com/critcoin/critcoin-api/pkg/errors"
	"github.com/critcoin/critcoin-api/pkg/export"
)

type archiveReader interface {
	Get(ctx context.Context, id string) (*models.SemesterArchive, bool, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ArchiveExport is a rendered archive section ready for download.
type ArchiveExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// SemesterArchiveExportService renders archive sections as CSV or PDF.
type SemesterArchiveExportService struct {
	archives archiveReader
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	enabled  bool
}

// NewSemesterArchiveExportService constructs the exporter. Nil renderers default to pkg/export.
func NewSemesterArchiveExportService(archives archiveReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger, enabled bool) *SemesterArchiveExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &SemesterArchiveExportService{archives: archives, csv: csv, pdf: pdf, logger: logger, enabled: enabled}
}

// Export renders one section of an archive.
func (s *SemesterArchiveExportService) Export(ctx context.Context, id, section, format string) (*ArchiveExport, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "archive export is disabled")
	}
	name := models.ArchiveSection(strings.ToLower(strings.TrimSpace(section)))
	if !name.Valid() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown archive section %q", section))
	}
	kind := models.ArchiveExportFormat(strings.ToLower(strings.TrimSpace(format)))
	if kind == "" {
		kind = models.ArchiveExportCSV
	}
	if kind != models.ArchiveExportCSV && kind != models.ArchiveExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	archive, _, err := s.archives.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dataset := sectionDataset(archive, name)
	title := fmt.Sprintf("%s - %s", archive.Name, name)

	var body []byte
	var contentType string
	switch kind {
	case models.ArchiveExportPDF:
		body, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		body, err = s.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render archive export")
	}

	s.logger.Debug("archive section exported",
		zap.String("archive_id", archive.ID),
		zap.String("section", string(name)),
		zap.String("format", string(kind)),
		zap.Int("rows", len(dataset.Rows)),
	)
	return &ArchiveExport{
		Filename:    fmt.Sprintf("%s-%s.%s", exportSlug(archive.Name), name, kind),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func sectionDataset(archive *models.SemesterArchive, section models.ArchiveSection) export.Dataset {
	switch section {
	case models.ArchiveSectionProfiles:
		data := export.Dataset{Headers: []string{"id", "walletAddress", "name", "bio", "createdAt"}}
		for _, p := range archive.Profiles {
			data.Rows = append(data.Rows, map[string]string{
				"id": p.ID, "walletAddress": p.WalletAddress, "name": p.Name, "bio": p.Bio, "createdAt": formatExportTime(p.CreatedAt),
			})
		}
		return data
	case models.ArchiveSectionProjects:
		data := export.Dataset{Headers: []string{"id", "slot", "title", "authorName", "walletAddress", "totalReceived", "link", "createdAt"}}
		for _, p := range archive.Projects {
			data.Rows = append(data.Rows, map[string]string{
				"id": p.ID, "slot": strconv.Itoa(p.Slot), "title": p.Title, "authorName": p.AuthorName,
				"walletAddress": p.WalletAddress, "totalReceived": p.TotalReceived.String(), "link": p.Link,
				"createdAt": formatExportTime(p.CreatedAt),
			})
		}
		return data
	case models.ArchiveSectionPosts:
		data := export.Dataset{Headers: []string{"id", "title", "authorName", "comments", "replies", "createdAt"}}
		for _, p := range archive.Posts {
			replies := 0
			for _, c := range p.Comments {
				replies += len(c.Replies)
			}
			data.Rows = append(data.Rows, map[string]string{
				"id": p.ID, "title": p.Title, "authorName": p.AuthorName, "comments": strconv.Itoa(len(p.Comments)),
				"replies": strconv.Itoa(replies), "createdAt": formatExportTime(p.CreatedAt),
			})
		}
		return data
	case models.ArchiveSectionLeaderboard:
		data := export.Dataset{Headers: []string{"slot", "rank", "title", "authorName", "totalReceived"}}
		for _, slot := range archive.Leaderboard {
			for _, entry := range slot.Entries {
				data.Rows = append(data.Rows, map[string]string{
					"slot": strconv.Itoa(slot.Slot), "rank": strconv.Itoa(entry.Rank), "title": entry.Title,
					"authorName": entry.AuthorName, "totalReceived": entry.TotalReceived.String(),
				})
			}
		}
		return data
	case models.ArchiveSectionTransactions:
		data := export.Dataset{Headers: []string{"id", "fromName", "fromWallet", "toName", "toWallet", "amount", "txHash", "createdAt"}}
		for _, tx := range archive.Transactions {
			data.Rows = append(data.Rows, map[string]string{
				"id": tx.ID, "fromName": tx.FromName, "fromWallet": tx.FromWallet, "toName": tx.ToName,
				"toWallet": tx.ToWallet, "amount": tx.Amount.String(), "txHash": tx.TxHash,
				"createdAt": formatExportTime(tx.CreatedAt),
			})
		}
		return data
	default:
		data := export.Dataset{Headers: []string{"id", "title", "creatorName", "reward", "status", "claimedByName", "createdAt"}}
		for _, b := range archive.Bounties {
			data.Rows = append(data.Rows, map[string]string{
				"id": b.ID, "title": b.Title, "creatorName": b.CreatorName, "reward": b.Reward.String(),
				"status": string(b.Status), "claimedByName": b.ClaimedByName, "createdAt": formatExportTime(b.CreatedAt),
			})
		}
		return data
	}
}

func formatExportTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func exportSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	if slug == "" {
		return "archive"
	}
	return slug
}
