package logs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/charliek/logview/internal/domain"
)

// pgQuerier is the subset of *pgxpool.Pool used by PostgresProvider.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresProvider reads log rows from a table with the columns
// id, timestamp, level, message, message_template, exception, properties (jsonb).
type PostgresProvider struct {
	db    pgQuerier
	pool  *pgxpool.Pool
	table string
}

// NewPostgresProvider opens a connection pool for dsn. Connections are
// established lazily on the first query.
func NewPostgresProvider(ctx context.Context, dsn, table string) (*PostgresProvider, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	return &PostgresProvider{db: pool, pool: pool, table: sanitizeTable(table)}, nil
}

// sanitizeTable quotes a table name, accepting an optional "schema." prefix.
func sanitizeTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// Fetch implements Provider.
func (p *PostgresProvider) Fetch(ctx context.Context, q domain.LogQuery) (domain.LogPage, error) {
	countSQL, selectSQL, args := buildPostgresQuery(p.table, q)

	var total int
	if err := p.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return domain.LogPage{}, fmt.Errorf("counting logs: %w", err)
	}

	offset, limit := Window(q.Page, q.PageSize)
	if limit == 0 || offset >= total {
		return domain.LogPage{Logs: []domain.LogEntry{}, Total: total}, nil
	}

	rows, err := p.db.Query(ctx, selectSQL, append(args, limit, offset)...)
	if err != nil {
		return domain.LogPage{}, fmt.Errorf("querying logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.LogEntry, 0, limit)
	for rows.Next() {
		entry, err := scanPostgresEntry(rows)
		if err != nil {
			return domain.LogPage{}, err
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return domain.LogPage{}, fmt.Errorf("reading log rows: %w", err)
	}

	return domain.LogPage{Logs: logs, Total: total}, nil
}

func scanPostgresEntry(rows pgx.Rows) (domain.LogEntry, error) {
	var (
		id                                  int64
		ts                                  time.Time
		level, message, template, exception *string
		properties                          []byte
	)
	if err := rows.Scan(&id, &ts, &level, &message, &template, &exception, &properties); err != nil {
		return domain.LogEntry{}, fmt.Errorf("scanning log row: %w", err)
	}

	entry := domain.LogEntry{
		ID:              strconv.FormatInt(id, 10),
		Timestamp:       ts,
		Level:           deref(level),
		Message:         deref(message),
		MessageTemplate: deref(template),
		Exception:       deref(exception),
	}
	if len(properties) > 0 {
		if err := json.Unmarshal(properties, &entry.Properties); err != nil {
			return domain.LogEntry{}, fmt.Errorf("decoding log properties: %w", err)
		}
	}
	return entry, nil
}

// buildPostgresQuery returns the count and page statements for q. The page
// statement takes two extra trailing arguments: limit and offset.
func buildPostgresQuery(table string, q domain.LogQuery) (countSQL, selectSQL string, args []any) {
	var where []string
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.Level != "" {
		where = append(where, "LOWER(level) = LOWER("+arg(q.Level)+")")
	}
	if q.Search != "" {
		n := arg("%" + escapeLike(q.Search) + "%")
		where = append(where, "(message ILIKE "+n+" OR exception ILIKE "+n+")")
	}
	if q.StartDate != nil {
		where = append(where, `"timestamp" >= `+arg(*q.StartDate))
	}
	if q.EndDate != nil {
		where = append(where, `"timestamp" <= `+arg(*q.EndDate))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	countSQL = "SELECT COUNT(*) FROM " + table + clause
	selectSQL = `SELECT id, "timestamp", level, message, message_template, exception, properties FROM ` +
		table + clause +
		` ORDER BY "timestamp" DESC, id DESC` +
		" LIMIT $" + strconv.Itoa(len(args)+1) +
		" OFFSET $" + strconv.Itoa(len(args)+2)
	return countSQL, selectSQL, args
}

// escapeLike escapes LIKE wildcards so search text matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Close releases the connection pool.
func (p *PostgresProvider) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
