// Package posts provides the PostgreSQL-backed post repository.
package posts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/antirev/internal/common"
	"github.com/dmitrijs2005/antirev/internal/dbx"
	"github.com/dmitrijs2005/antirev/internal/server/models"
)

// PostgresRepository implements post storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a post for post.OwnerID. The foreign key on owner_id is the
// final guard against posting for an account deleted in the meantime.
func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (owner_id, title, post_type, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, post.OwnerID, post.Title, string(post.Type), post.Content).
		Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

// List returns all posts ordered by id, which follows insertion order.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Post, error) {
	query :=
		`SELECT id, owner_id, title, post_type, content, created_at FROM posts
		 ORDER BY id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}
	defer rows.Close()

	result := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Type, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByOwner removes every post owned by ownerID.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	query := `DELETE FROM posts WHERE owner_id = $1`

	res, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
