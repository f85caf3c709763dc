package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critcoin/critcoin-api/internal/models"
	appErrors "github.com/critcoin/critcoin-api/pkg/errors"
)

type archiveReaderStub struct {
	archive *models.SemesterArchive
}

func (a archiveReaderStub) Get(ctx context.Context, id string) (*models.SemesterArchive, bool, error) {
	if a.archive == nil || a.archive.ID != id {
		return nil, false, archiveNotFound()
	}
	return a.archive, false, nil
}

func exportFixture() *models.SemesterArchive {
	return &models.SemesterArchive{
		SemesterArchiveSummary: models.SemesterArchiveSummary{ID: "a-1", Name: "Fall 2024 / Final"},
		Leaderboard: []models.LeaderboardSlot{
			{Slot: 1, Entries: []models.LeaderboardEntry{
				{Rank: 1, Title: "Bridge", AuthorName: "Ada", TotalReceived: decimal.NewFromInt(50)},
				{Rank: 2, Title: "Tunnel", AuthorName: "Lin", TotalReceived: decimal.RequireFromString("12.5")},
			}},
			{Slot: 2, Entries: []models.LeaderboardEntry{}},
		},
	}
}

func TestSemesterArchiveExportCSV(t *testing.T) {
	svc := NewSemesterArchiveExportService(archiveReaderStub{archive: exportFixture()}, nil, nil, nil, true)

	out, err := svc.Export(context.Background(), "a-1", "leaderboard", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", out.ContentType)
	assert.Equal(t, "fall-2024-final-leaderboard.csv", out.Filename)

	lines := strings.Split(strings.TrimSpace(string(out.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "slot,rank,title,authorName,totalReceived", lines[0])
	assert.Equal(t, "1,1,Bridge,Ada,50", lines[1])
	assert.Equal(t, "1,2,Tunnel,Lin,12.5", lines[2])
}

func TestSemesterArchiveExportPDF(t *testing.T) {
	svc := NewSemesterArchiveExportService(archiveReaderStub{archive: exportFixture()}, nil, nil, nil, true)

	out, err := svc.Export(context.Background(), "a-1", "profiles", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.True(t, strings.HasPrefix(string(out.Body), "%PDF"))
}

func TestSemesterArchiveExportRejectsUnknownInput(t *testing.T) {
	svc := NewSemesterArchiveExportService(archiveReaderStub{archive: exportFixture()}, nil, nil, nil, true)

	_, err := svc.Export(context.Background(), "a-1", "wallets", "csv")
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Export(context.Background(), "a-1", "projects", "xlsx")
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Export(context.Background(), "missing", "projects", "csv")
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	disabled := NewSemesterArchiveExportService(archiveReaderStub{archive: exportFixture()}, nil, nil, nil, false)
	_, err = disabled.Export(context.Background(), "a-1", "projects", "csv")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}
