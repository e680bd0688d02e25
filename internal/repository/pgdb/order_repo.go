package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/internal/repository/pgdb/converter"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/tr"
)

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{pool: pool, conv: conv}
}

// Create сохраняет заказ вместе с позициями. Вызывается только внутри
// транзакции оформления заказа.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := o.conv.ToModel(order)
	query := `
		INSERT INTO orders (session_id, total, item_count, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.SessionID, model.Total, model.ItemCount, model.Status,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, title, price, quantity)
		VALUES ($1, $2, $3, $4, $5);
	`

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, itemQuery,
			model.ID, item.ProductID, item.Title, item.Price, item.Quantity,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	created := o.conv.ToEntity(model)
	created.Items = order.Items

	return created, nil
}
