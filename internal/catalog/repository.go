package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines read access to the catalog tables.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, filter Filter) ([]*Item, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var itemColumns = []string{"id", "kind", "name", "location", "description", "price", "created_at"}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(itemColumns...).
		From("public.catalog_items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get catalog item query failed: %w", err)
	}

	var it Item
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&it.ID, &it.Kind, &it.Name, &it.Location, &it.Description, &it.Price, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get catalog item failed: %w", err)
	}
	return &it, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Item, int, error) {
	filter = filter.normalized()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(itemColumns, "count(*) OVER() as total_count")...).
		From("public.catalog_items")

	// Dynamic Filtering
	if filter.Kind != "" {
		query = query.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"location": pattern},
		})
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.OrderBy("name ASC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list catalog items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list catalog items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	var total int
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.Kind, &it.Name, &it.Location, &it.Description, &it.Price, &it.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan catalog item failed: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate catalog items failed: %w", err)
	}
	return items, total, nil
}
