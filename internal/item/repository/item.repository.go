package repository

import (
	"context"
	"database/sql"
	"fmt"

	"todolist/internal/item/model"
)

// ItemRepository runs one parameterized statement per call against the items table.
type ItemRepository struct {
	DB *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

func (r *ItemRepository) List(ctx context.Context) ([]model.Item, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, title, created_at FROM items ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) Create(ctx context.Context, title string) (model.Item, error) {
	var it model.Item
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO items (title) VALUES ($1) RETURNING id, title, created_at", title,
	).Scan(&it.ID, &it.Title, &it.CreatedAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("insert item: %w", err)
	}
	return it, nil
}

// UpdateTitle returns the number of rows changed; zero means the id did not exist.
func (r *ItemRepository) UpdateTitle(ctx context.Context, id int64, title string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "UPDATE items SET title = $1 WHERE id = $2", title, id)
	if err != nil {
		return 0, fmt.Errorf("update item %d: %w", id, err)
	}
	return res.RowsAffected()
}

// Delete returns the number of rows removed; zero means the id did not exist.
func (r *ItemRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM items WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete item %d: %w", id, err)
	}
	return res.RowsAffected()
}
