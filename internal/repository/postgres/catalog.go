package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/query"
	"github.com/0311869uaslp-a11y/Market-pro/internal/repository"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/database"
	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
)

const productColumns = `id::text, name, description, price, cutted_price, category, stock,
	images, brand, specifications, ratings, num_of_reviews, user_id, created_at, updated_at`

const selectProducts = `SELECT ` + productColumns + ` FROM products`

const selectReviews = `SELECT id::text, product_id::text, user_id, name, rating, comment
	FROM product_reviews WHERE product_id = ANY($1::uuid[]) ORDER BY seq`

// querier is implemented by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CatalogRepository implements repository.CatalogRepository on PostgreSQL.
// Reviews live in product_reviews and are loaded in one batch per call.
type CatalogRepository struct {
	db  database.DBTX
	now func() time.Time
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a repository on db.
func NewCatalogRepository(db database.DBTX) *CatalogRepository {
	return &CatalogRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Count returns the number of products matching q's filter.
func (r *CatalogRepository) Count(ctx context.Context, q query.Query) (n int, err error) {
	clause, args, err := where(q)
	if err != nil {
		return 0, err
	}
	sql := `SELECT count(*) FROM products` + clause

	ctx, end := database.TraceQuery(ctx, "CountProducts", sql)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Find returns one page (or all) of the products matching q.
func (r *CatalogRepository) Find(ctx context.Context, q query.Query) (products []domain.Product, err error) {
	clause, args, err := where(q)
	if err != nil {
		return nil, err
	}
	sql := selectProducts + clause + ` ORDER BY created_at, id`
	if q.Limit > 0 {
		args = append(args, q.Limit, q.Skip)
		sql += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	} else if q.Skip > 0 {
		args = append(args, q.Skip)
		sql += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	ctx, end := database.TraceQuery(ctx, "FindProducts", sql)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	products, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		p, err := scanProduct(row)
		if err != nil {
			return domain.Product{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	if len(products) == 0 {
		return []domain.Product{}, nil
	}

	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	reviews, err := loadReviews(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Reviews = reviews[products[i].ID]
	}
	return products, nil
}

// GetByID returns a product with its reviews.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (p *domain.Product, err error) {
	sql := selectProducts + ` WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetProduct", sql)
	defer func() { end(err) }()

	p, err = scanProduct(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, lookupError(err)
	}
	reviews, err := loadReviews(ctx, r.db, []string{id})
	if err != nil {
		return nil, err
	}
	p.Reviews = reviews[id]
	return p, nil
}

// Create inserts p without reviews.
func (r *CatalogRepository) Create(ctx context.Context, p *domain.Product) (err error) {
	images, brand, specs, err := marshalMedia(p)
	if err != nil {
		return err
	}
	now := r.now()
	p.CreatedAt, p.UpdatedAt = now, now

	const sql = `INSERT INTO products (id, name, description, price, cutted_price, category, stock,
		images, brand, specifications, ratings, num_of_reviews, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	ctx, end := database.TraceQuery(ctx, "CreateProduct", sql)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, sql,
		p.ID, p.Name, p.Description, p.Price, p.CuttedPrice, p.Category, p.Stock,
		images, brand, specs, p.Ratings, p.NumOfReviews, p.User, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update overwrites the catalog fields of p.
func (r *CatalogRepository) Update(ctx context.Context, p *domain.Product) (err error) {
	images, brand, specs, err := marshalMedia(p)
	if err != nil {
		return err
	}
	p.UpdatedAt = r.now()

	const sql = `UPDATE products
		SET name = $1, description = $2, price = $3, cutted_price = $4, category = $5, stock = $6,
		    images = $7, brand = $8, specifications = $9, user_id = $10, updated_at = $11
		WHERE id = $12`

	ctx, end := database.TraceQuery(ctx, "UpdateProduct", sql)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, sql,
		p.Name, p.Description, p.Price, p.CuttedPrice, p.Category, p.Stock,
		images, brand, specs, p.User, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product")
	}
	return nil
}

// Delete removes a product; its reviews go with it through ON DELETE CASCADE.
func (r *CatalogRepository) Delete(ctx context.Context, id string) (err error) {
	const sql = `DELETE FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteProduct", sql)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		if invalidID(err) {
			return apperrors.NotFound("product")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product")
	}
	return nil
}

// MutateReviews locks the product row, applies fn and writes back the
// changed reviews and the aggregates in the same transaction.
func (r *CatalogRepository) MutateReviews(ctx context.Context, id string, fn repository.ReviewMutation) (p *domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, "MutateReviews", "BEGIN; SELECT ... FOR UPDATE; ... COMMIT")
	defer func() { end(err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin review mutation: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	p, err = scanProduct(tx.QueryRow(ctx, selectProducts+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, lookupError(err)
	}
	loaded, err := loadReviews(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}
	p.Reviews = loaded[id]

	before := make(map[string]domain.Review, len(p.Reviews))
	for _, rv := range p.Reviews {
		before[rv.ID] = rv
	}

	if err = fn(p); err != nil {
		return nil, err
	}

	kept := make(map[string]bool, len(p.Reviews))
	for _, rv := range p.Reviews {
		kept[rv.ID] = true
	}
	var removed []string
	for rid := range before {
		if !kept[rid] {
			removed = append(removed, rid)
		}
	}
	if len(removed) > 0 {
		if _, err = tx.Exec(ctx, `DELETE FROM product_reviews WHERE id = ANY($1::uuid[])`, removed); err != nil {
			return nil, fmt.Errorf("delete reviews: %w", err)
		}
	}

	for _, rv := range p.Reviews {
		if old, ok := before[rv.ID]; ok && old == rv {
			continue
		}
		if _, err = tx.Exec(ctx, `INSERT INTO product_reviews (id, product_id, user_id, name, rating, comment)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (product_id, user_id)
			DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()`,
			rv.ID, id, rv.User, rv.Name, rv.Rating, rv.Comment,
		); err != nil {
			return nil, fmt.Errorf("upsert review: %w", err)
		}
	}

	p.UpdatedAt = r.now()
	if _, err = tx.Exec(ctx, `UPDATE products SET ratings = $1, num_of_reviews = $2, updated_at = $3 WHERE id = $4`,
		p.Ratings, p.NumOfReviews, p.UpdatedAt, id,
	); err != nil {
		return nil, fmt.Errorf("update review aggregates: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit review mutation: %w", err)
	}
	return p, nil
}

func loadReviews(ctx context.Context, db querier, productIDs []string) (map[string][]domain.Review, error) {
	rows, err := db.Query(ctx, selectReviews, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Review, len(productIDs))
	for _, id := range productIDs {
		out[id] = []domain.Review{}
	}
	for rows.Next() {
		var (
			rv        domain.Review
			productID string
		)
		if err := rows.Scan(&rv.ID, &productID, &rv.User, &rv.Name, &rv.Rating, &rv.Comment); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out[productID] = append(out[productID], rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p                    domain.Product
		images, brand, specs []byte
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CuttedPrice, &p.Category, &p.Stock,
		&images, &brand, &specs, &p.Ratings, &p.NumOfReviews, &p.User, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	if err := json.Unmarshal(brand, &p.Brand); err != nil {
		return nil, fmt.Errorf("unmarshal brand: %w", err)
	}
	if err := json.Unmarshal(specs, &p.Specifications); err != nil {
		return nil, fmt.Errorf("unmarshal specifications: %w", err)
	}
	return &p, nil
}

func marshalMedia(p *domain.Product) (images, brand, specs []byte, err error) {
	imgs, list := p.Images, p.Specifications
	if imgs == nil {
		imgs = []domain.Image{}
	}
	if list == nil {
		list = []domain.Specification{}
	}
	if images, err = json.Marshal(imgs); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal images: %w", err)
	}
	if brand, err = json.Marshal(p.Brand); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal brand: %w", err)
	}
	if specs, err = json.Marshal(list); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal specifications: %w", err)
	}
	return images, brand, specs, nil
}

// lookupError maps a missing row, or an ID PostgreSQL cannot parse as a
// UUID, to NotFound.
func lookupError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || invalidID(err) {
		return apperrors.NotFound("product")
	}
	return fmt.Errorf("get product: %w", err)
}

// invalidID reports SQLSTATE 22P02 (invalid_text_representation).
func invalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
