package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/critcoin/critcoin-api/internal/models"
)

// sectionColumns maps readable sections to their JSONB column. Only names in
// this map are ever interpolated into SQL.
var sectionColumns = map[models.ArchiveSection]string{
	models.ArchiveSectionProfiles:     "profiles",
	models.ArchiveSectionProjects:     "projects",
	models.ArchiveSectionPosts:        "posts",
	models.ArchiveSectionLeaderboard:  "leaderboard",
	models.ArchiveSectionTransactions: "transactions",
	models.ArchiveSectionBounties:     "bounties",
}

type semesterArchiveRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Description  string         `db:"description"`
	ArchivedAt   time.Time      `db:"archived_at"`
	ArchivedBy   string         `db:"archived_by"`
	Stats        types.JSONText `db:"stats"`
	Profiles     types.JSONText `db:"profiles"`
	Projects     types.JSONText `db:"projects"`
	Posts        types.JSONText `db:"posts"`
	Transactions types.JSONText `db:"transactions"`
	Bounties     types.JSONText `db:"bounties"`
	Leaderboard  types.JSONText `db:"leaderboard"`
}

type semesterArchiveSummaryRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	ArchivedAt  time.Time      `db:"archived_at"`
	ArchivedBy  string         `db:"archived_by"`
	Stats       types.JSONText `db:"stats"`
}

// SemesterArchiveRepository persists semester archives as JSONB documents.
type SemesterArchiveRepository struct {
	db *sqlx.DB
}

// NewSemesterArchiveRepository constructs the repository.
func NewSemesterArchiveRepository(db *sqlx.DB) *SemesterArchiveRepository {
	return &SemesterArchiveRepository{db: db}
}

// Create inserts the archive in a single statement. A name collision,
// including one lost in a race, returns ErrDuplicateArchiveName.
func (r *SemesterArchiveRepository) Create(ctx context.Context, archive *models.SemesterArchive) error {
	if archive.ID == "" {
		archive.ID = uuid.NewString()
	}
	if archive.ArchivedAt.IsZero() {
		archive.ArchivedAt = time.Now().UTC()
	}
	row, err := toSemesterArchiveRow(archive)
	if err != nil {
		return err
	}
	const query = `INSERT INTO semester_archives
	(id, name, description, archived_at, archived_by, stats, profiles, projects, posts, transactions, bounties, leaderboard)
	VALUES (:id, :name, :description, :archived_at, :archived_by, :stats, :profiles, :projects, :posts, :transactions, :bounties, :leaderboard)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateArchiveName
		}
		return fmt.Errorf("create semester archive: %w", err)
	}
	return nil
}

// ExistsByName reports whether another archive already uses the exact name.
func (r *SemesterArchiveRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		err = r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM semester_archives WHERE name = $1)`, name)
	} else {
		err = r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM semester_archives WHERE name = $1 AND id <> $2)`, name, excludeID)
	}
	if err != nil {
		return false, fmt.Errorf("check semester archive name: %w", err)
	}
	return exists, nil
}

// GetByID loads the full archive.
func (r *SemesterArchiveRepository) GetByID(ctx context.Context, id string) (*models.SemesterArchive, error) {
	const query = `SELECT id, name, description, archived_at, archived_by, stats,
       profiles, projects, posts, transactions, bounties, leaderboard
	FROM semester_archives WHERE id = $1`
	var row semesterArchiveRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return row.toModel()
}

// GetSection returns the raw JSON of one archive section.
func (r *SemesterArchiveRepository) GetSection(ctx context.Context, id string, section models.ArchiveSection) (json.RawMessage, error) {
	column, ok := sectionColumns[section]
	if !ok {
		return nil, fmt.Errorf("unknown archive section %q", section)
	}
	query := fmt.Sprintf(`SELECT %s FROM semester_archives WHERE id = $1`, column)
	var raw types.JSONText
	if err := r.db.GetContext(ctx, &raw, query, id); err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// List returns archive summaries newest first.
func (r *SemesterArchiveRepository) List(ctx context.Context, limit, offset int) ([]models.SemesterArchiveSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `SELECT id, name, description, archived_at, archived_by, stats
	FROM semester_archives ORDER BY archived_at DESC, id LIMIT $1 OFFSET $2`
	var rows []semesterArchiveSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list semester archives: %w", err)
	}
	summaries := make([]models.SemesterArchiveSummary, 0, len(rows))
	for _, row := range rows {
		summary := models.SemesterArchiveSummary{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			ArchivedAt:  row.ArchivedAt,
			ArchivedBy:  row.ArchivedBy,
		}
		if err := row.Stats.Unmarshal(&summary.Stats); err != nil {
			return nil, fmt.Errorf("decode stats for archive %s: %w", row.ID, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Count returns the number of stored archives.
func (r *SemesterArchiveRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM semester_archives`); err != nil {
		return 0, fmt.Errorf("count semester archives: %w", err)
	}
	return total, nil
}

// UpdateMetadata changes name and/or description. Snapshot columns are never touched.
func (r *SemesterArchiveRepository) UpdateMetadata(ctx context.Context, id string, name, description *string) error {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if name != nil {
		args = append(args, *name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if description != nil {
		args = append(args, *description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if len(sets) == 0 {
		return fmt.Errorf("update semester archive: no fields")
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE semester_archives SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateArchiveName
		}
		return fmt.Errorf("update semester archive: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check semester archive update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete permanently removes an archive.
func (r *SemesterArchiveRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM semester_archives WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete semester archive: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check semester archive delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func toSemesterArchiveRow(a *models.SemesterArchive) (*semesterArchiveRow, error) {
	row := &semesterArchiveRow{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		ArchivedAt:  a.ArchivedAt,
		ArchivedBy:  a.ArchivedBy,
	}
	fields := []struct {
		dest  *types.JSONText
		value interface{}
		name  string
	}{
		{&row.Stats, a.Stats, "stats"},
		{&row.Profiles, nonNil(a.Profiles), "profiles"},
		{&row.Projects, nonNil(a.Projects), "projects"},
		{&row.Posts, nonNil(a.Posts), "posts"},
		{&row.Transactions, nonNil(a.Transactions), "transactions"},
		{&row.Bounties, nonNil(a.Bounties), "bounties"},
		{&row.Leaderboard, nonNil(a.Leaderboard), "leaderboard"},
	}
	for _, f := range fields {
		raw, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("encode archive %s: %w", f.name, err)
		}
		*f.dest = types.JSONText(raw)
	}
	return row, nil
}

func (row *semesterArchiveRow) toModel() (*models.SemesterArchive, error) {
	archive := &models.SemesterArchive{
		SemesterArchiveSummary: models.SemesterArchiveSummary{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			ArchivedAt:  row.ArchivedAt,
			ArchivedBy:  row.ArchivedBy,
		},
	}
	fields := []struct {
		src  types.JSONText
		dest interface{}
		name string
	}{
		{row.Stats, &archive.Stats, "stats"},
		{row.Profiles, &archive.Profiles, "profiles"},
		{row.Projects, &archive.Projects, "projects"},
		{row.Posts, &archive.Posts, "posts"},
		{row.Transactions, &archive.Transactions, "transactions"},
		{row.Bounties, &archive.Bounties, "bounties"},
		{row.Leaderboard, &archive.Leaderboard, "leaderboard"},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := f.src.Unmarshal(f.dest); err != nil {
			return nil, fmt.Errorf("decode archive %s: %w", f.name, err)
		}
	}
	return archive, nil
}

// nonNil keeps empty sections encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
