package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
// Uniqueness is enforced by the primary key on short_links.code.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM short_links WHERE code = $1)`

	var exists bool

	if err := p.pool.QueryRow(ctx, query, string(code)).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresStore) Insert(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (code, long_url, owner_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(link.Code),
		link.LongURL,
		nullableOwner(link.OwnerID),
		link.CreatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrDuplicateKey
	}

	return nil
}

func (p *PostgresStore) FindByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	query := `
		SELECT code, long_url, owner_id, created_at
		FROM short_links
		WHERE code = $1
	`

	link, err := scanShortLink(p.pool.QueryRow(ctx, query, string(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return link, nil
}

func (p *PostgresStore) ListByOwner(ctx context.Context, owner shortener.OwnerID) ([]*shortener.ShortLink, error) {
	query := `
		SELECT code, long_url, owner_id, created_at
		FROM short_links
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, string(owner))
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*shortener.ShortLink, error) {
		return scanShortLink(row)
	})
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanShortLink(row pgx.Row) (*shortener.ShortLink, error) {
	var (
		link    shortener.ShortLink
		code    string
		ownerID *string
	)

	if err := row.Scan(&code, &link.LongURL, &ownerID, &link.CreatedAt); err != nil {
		return nil, err
	}

	link.Code = shortener.Code(code)

	if ownerID != nil {
		link.OwnerID = shortener.OwnerID(*ownerID)
	}

	return &link, nil
}

func nullableOwner(owner shortener.OwnerID) *string {
	if owner == "" {
		return nil
	}

	str := string(owner)

	return &str
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
