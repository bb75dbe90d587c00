package articleinfra

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/ptrx"
)

const articleColumns = `id, topic, tier, formats, status, progress, content,
	research_data, metadata, error, client_ip, fingerprint, created_at, completed_at`

// SQLStore persists articles with sqlx on postgres or sqlite.
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
}

func NewSQLStore(db *sqlx.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

var _ article.Repository = (*SQLStore)(nil)

// EnsureSchema creates the articles table and indexes if missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	stmts := sqliteSchema
	if s.dialect == DialectPostgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return article.ErrStoreFailure("ensure_schema", err)
		}
	}
	return nil
}

func (s *SQLStore) rebind(query string) string {
	return sqlx.Rebind(s.dialect.bindType(), query)
}

func (s *SQLStore) timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	if s.dialect == DialectSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// ============================================================================
// Writes
// ============================================================================

func (s *SQLStore) Create(ctx context.Context, a *article.Article) error {
	row := toRow(a)
	query := s.rebind(`
		INSERT INTO articles (` + articleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		row.ID, row.Topic, row.Tier, row.Formats, row.Status, row.Progress,
		row.Content, row.ResearchData, row.Metadata, row.Error,
		row.ClientIP, row.Fingerprint,
		s.timeArg(&a.CreatedAt), s.timeArg(a.CompletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return article.ErrDuplicateID(a.ID)
		}
		return article.ErrStoreFailure("create", err).WithDetail("article_id", a.ID)
	}
	return nil
}

func (s *SQLStore) UpdateStatus(ctx context.Context, id string, update article.StatusUpdate) error {
	return s.mutate(ctx, "update_status", id, update.Apply)
}

func (s *SQLStore) SaveContent(ctx context.Context, id string, content article.Content) error {
	return s.mutate(ctx, "save_content", id, func(a *article.Article) error {
		if a.Status != article.StatusCompleted {
			return article.ErrNotReady(id, a.Status)
		}
		a.Content = &content
		return nil
	})
}

// mutate reads the row under a write lock, applies fn and writes the
// mutable columns back in one transaction.
func (s *SQLStore) mutate(ctx context.Context, op, id string, fn func(*article.Article) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return article.ErrStoreFailure(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = ?`
	if s.dialect == DialectPostgres {
		query += ` FOR UPDATE`
	}

	var row articleRow
	if err := tx.GetContext(ctx, &row, s.rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return article.ErrNotFound(id)
		}
		return article.ErrStoreFailure(op, err).WithDetail("article_id", id)
	}

	a := row.toDomain()
	if err := fn(a); err != nil {
		return err
	}

	next := toRow(a)
	_, err = tx.ExecContext(ctx, s.rebind(`
		UPDATE articles SET
			status = ?,
			progress = ?,
			content = ?,
			research_data = ?,
			metadata = ?,
			error = ?,
			completed_at = ?
		WHERE id = ?`),
		next.Status, next.Progress, next.Content, next.ResearchData,
		next.Metadata, next.Error, s.timeArg(a.CompletedAt), id,
	)
	if err != nil {
		return article.ErrStoreFailure(op, err).WithDetail("article_id", id)
	}

	if err := tx.Commit(); err != nil {
		return article.ErrStoreFailure(op, err).WithDetail("article_id", id)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM articles WHERE id = ?`), id); err != nil {
		return article.ErrStoreFailure("delete", err).WithDetail("article_id", id)
	}
	return nil
}

func (s *SQLStore) FailStale(ctx context.Context, reason string) (int, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE articles SET status = ?, error = ?
		WHERE status NOT IN (?, ?)`),
		string(article.StatusFailed), reason,
		string(article.StatusCompleted), string(article.StatusFailed),
	)
	if err != nil {
		return 0, article.ErrStoreFailure("fail_stale", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, article.ErrStoreFailure("fail_stale", err)
	}
	return int(n), nil
}

// ============================================================================
// Reads
// ============================================================================

func (s *SQLStore) Get(ctx context.Context, id string) (*article.Article, error) {
	var row articleRow
	query := s.rebind(`SELECT ` + articleColumns + ` FROM articles WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, article.ErrNotFound(id)
		}
		return nil, article.ErrStoreFailure("get", err).WithDetail("article_id", id)
	}
	return row.toDomain(), nil
}

func (s *SQLStore) List(ctx context.Context, filter article.ListFilter) ([]*article.Article, int, error) {
	var (
		where string
		args  []any
	)
	if filter.Status != nil {
		where = ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.rebind(`SELECT COUNT(*) FROM articles`+where), args...); err != nil {
		return nil, 0, article.ErrStoreFailure("list", err)
	}

	query := `SELECT ` + articleColumns + ` FROM articles` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset())

	var rows []articleRow
	if err := s.db.SelectContext(ctx, &rows, s.rebind(query), args...); err != nil {
		return nil, 0, article.ErrStoreFailure("list", err)
	}

	out := make([]*article.Article, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

// ============================================================================
// Persistence model
// ============================================================================

type articleRow struct {
	ID           string           `db:"id"`
	Topic        string           `db:"topic"`
	Tier         string           `db:"tier"`
	Formats      article.Formats  `db:"formats"`
	Status       string           `db:"status"`
	Progress     int              `db:"progress"`
	Content      *article.Content `db:"content"`
	ResearchData article.Document `db:"research_data"`
	Metadata     article.Document `db:"metadata"`
	Error        sql.NullString   `db:"error"`
	ClientIP     string           `db:"client_ip"`
	Fingerprint  string           `db:"fingerprint"`
	CreatedAt    dbTime           `db:"created_at"`
	CompletedAt  dbTime           `db:"completed_at"`
}

// toRow relies on the driver.Valuer implementations of the blob types.
func toRow(a *article.Article) articleRow {
	row := articleRow{
		ID:           a.ID,
		Topic:        a.Topic,
		Tier:         string(a.Tier),
		Formats:      a.Formats,
		Status:       string(a.Status),
		Progress:     a.Progress,
		Content:      a.Content,
		ResearchData: a.ResearchData,
		Metadata:     a.Metadata,
		ClientIP:     a.ClientIP,
		Fingerprint:  a.Fingerprint,
	}
	if a.Error != nil {
		row.Error = sql.NullString{String: *a.Error, Valid: true}
	}
	return row
}

func (r articleRow) toDomain() *article.Article {
	a := &article.Article{
		ID:           r.ID,
		Topic:        r.Topic,
		Tier:         article.Tier(r.Tier),
		Formats:      r.Formats,
		Status:       article.Status(r.Status),
		Progress:     r.Progress,
		Content:      r.Content,
		ResearchData: r.ResearchData,
		Metadata:     r.Metadata,
		ClientIP:     r.ClientIP,
		Fingerprint:  r.Fingerprint,
		CreatedAt:    r.CreatedAt.Time,
		CompletedAt:  r.CompletedAt.ptr(),
	}
	if r.Error.Valid {
		a.Error = ptrx.String(r.Error.String)
	}
	return a
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgerrcode.UniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
