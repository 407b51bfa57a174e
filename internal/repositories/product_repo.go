package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dely/internal/models"
)

const productColumns = `id, category_id, name, slug, description, mrp, selling_price, stock_quantity, min_order_quantity, unit, pieces_per_set, hsn_code, is_featured, is_available, created_at, updated_at`

type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Search(ctx context.Context, filter models.ProductSearchFilter) ([]*models.Product, error)
	CountSearch(ctx context.Context, filter models.ProductSearchFilter) (int, error)
	GetVariants(ctx context.Context, productID uuid.UUID) ([]*models.ProductVariant, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description, &p.MRP, &p.SellingPrice, &p.StockQuantity, &p.MinOrderQuantity, &p.Unit, &p.PiecesPerSet, &p.HSNCode, &p.IsFeatured, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return r.scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)
	return r.scanProduct(r.db.QueryRow(ctx, query, slug))
}

func buildProductWhere(filter models.ProductSearchFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Query != "" {
		add(`(name ILIKE $%[1]d OR description ILIKE $%[1]d OR slug ILIKE $%[1]d)`, "%"+filter.Query+"%")
	}
	if filter.CategoryID != nil {
		add(`category_id = $%d`, *filter.CategoryID)
	}
	if filter.Featured != nil {
		add(`is_featured = $%d`, *filter.Featured)
	}
	if filter.Available != nil {
		add(`is_available = $%d`, *filter.Available)
	}
	if filter.MinPrice != nil {
		add(`selling_price >= $%d`, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add(`selling_price <= $%d`, *filter.MaxPrice)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func productOrderBy(filter models.ProductSearchFilter) string {
	column := "created_at"
	switch filter.SortBy {
	case "name", "selling_price", "created_at":
		column = filter.SortBy
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

func (r *productRepo) Search(ctx context.Context, filter models.ProductSearchFilter) ([]*models.Product, error) {
	where, args := buildProductWhere(filter)
	query := fmt.Sprintf(`
		SELECT %s FROM products
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, productColumns, where, productOrderBy(filter), len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description, &p.MRP, &p.SellingPrice, &p.StockQuantity, &p.MinOrderQuantity, &p.Unit, &p.PiecesPerSet, &p.HSNCode, &p.IsFeatured, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) CountSearch(ctx context.Context, filter models.ProductSearchFilter) (int, error) {
	where, args := buildProductWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM products %s`, where)

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *productRepo) GetVariants(ctx context.Context, productID uuid.UUID) ([]*models.ProductVariant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, hsn_code, set_pcs, weight, mrp, special_price, free_item, created_at, updated_at
		FROM product_variants
		WHERE product_id = $1
		ORDER BY created_at
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []*models.ProductVariant
	for rows.Next() {
		v := &models.ProductVariant{}
		if err := rows.Scan(&v.ID, &v.ProductID, &v.HSNCode, &v.SetPcs, &v.Weight, &v.MRP, &v.SpecialPrice, &v.FreeItem, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
