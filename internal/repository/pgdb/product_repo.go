package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/internal/repository/pgdb/converter"
	"github.com/partsline/storefront/internal/usecase"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/tr"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert идемпотентно создаёт или обновляет товар по уникальному названию.
// Запись обновляется только при изменении цены, категории, описания или
// характеристик.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*usecase.UpsertProductRes, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// VALUES ($1, $2, $3, $4, $5) title, price, category_id, description, specs
	query := `
		WITH upsert AS (
		INSERT INTO products (title, price, category_id, description, specs)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (title)
		DO UPDATE SET
			price = EXCLUDED.price,
			category_id = EXCLUDED.category_id,
			description = EXCLUDED.description,
			specs = EXCLUDED.specs,
			updated_at = NOW()
		WHERE
			products.price IS DISTINCT FROM EXCLUDED.price OR
			products.category_id IS DISTINCT FROM EXCLUDED.category_id OR
			products.description IS DISTINCT FROM EXCLUDED.description OR
			products.specs IS DISTINCT FROM EXCLUDED.specs
		RETURNING
			id, title, price, category_id, description, image_keys,
			rating_rate, rating_count, specs, created_at, updated_at, is_archived
		)
		SELECT
			id, title, price, category_id, description, image_keys,
			rating_rate, rating_count, specs, created_at, updated_at, is_archived,
			false AS no_changes
		FROM upsert

		UNION ALL

		SELECT
			id, title, price, category_id, description, image_keys,
			rating_rate, rating_count, specs, created_at, updated_at, is_archived,
			true AS no_changes
		FROM products
		WHERE title = $1
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var model converter.ProductModel
	var noChanges bool
	err = tx.QueryRow(ctx, query,
		product.Title, product.Price, product.CategoryID, product.Description, product.Specs,
	).Scan(
		&model.ID, &model.Title, &model.Price, &model.CategoryID,
		&model.Description, &model.ImageKeys, &model.RatingRate, &model.RatingCount,
		&model.Specs, &model.CreatedAt, &model.UpdatedAt, &model.IsArchived, &noChanges,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewUpsertProductRes(p.conv.ToEntity(&model), noChanges), nil
}

// GetProductsInfo возвращает информацию о товарах по их идентификаторам,
// включая название категории.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]usecase.ProductInfo, error) {
	query := `
		SELECT pr.id, pr.title, pr.price, cat.name,
		       pr.description, pr.image_keys, pr.rating_rate, pr.rating_count, pr.specs
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = ANY($1)
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return p.scanProductsInfo(rows)
}

// ListProducts возвращает страницу неархивных товаров каталога в порядке
// добавления.
func (p *ProductRepo) ListProducts(ctx context.Context, limit, offset int) ([]usecase.ProductInfo, error) {
	query := `
		SELECT pr.id, pr.title, pr.price, cat.name,
		       pr.description, pr.image_keys, pr.rating_rate, pr.rating_count, pr.specs
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE NOT pr.is_archived
		ORDER BY pr.id
		LIMIT $1 OFFSET $2
	`

	rows, err := p.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return p.scanProductsInfo(rows)
}

// ListProductsByCategory возвращает неархивные товары категории по её
// каноническому имени.
func (p *ProductRepo) ListProductsByCategory(ctx context.Context, categoryName string) ([]usecase.ProductInfo, error) {
	query := `
		SELECT pr.id, pr.title, pr.price, cat.name,
		       pr.description, pr.image_keys, pr.rating_rate, pr.rating_count, pr.specs
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE cat.name = $1 AND NOT pr.is_archived
		ORDER BY pr.id
	`

	rows, err := p.pool.Query(ctx, query, categoryName)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return p.scanProductsInfo(rows)
}

// SetImageKeys фиксирует ключи загруженных изображений товара.
func (p *ProductRepo) SetImageKeys(ctx context.Context, productID int64, keys []string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET image_keys = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := tx.Exec(ctx, query, keys, productID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *ProductRepo) scanProductsInfo(rows pgx.Rows) ([]usecase.ProductInfo, error) {
	result := make([]usecase.ProductInfo, 0)
	for rows.Next() {
		var product usecase.ProductInfo
		if err := rows.Scan(
			&product.ID, &product.Title, &product.Price, &product.CategoryName,
			&product.Description, &product.ImageKeys, &product.RatingRate,
			&product.RatingCount, &product.Specs,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
