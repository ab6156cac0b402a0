package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"exchange-campus/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

const productColumns = `id, title, description, price, category, condition, images, university, course, seller_id, is_available, created_at`

// ProductFilter narrows listing queries. Zero values mean "no filter".
type ProductFilter struct {
	University string
	Category   string
	Course     string
	Query      string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// ProductUpdate carries the mutable listing fields.
type ProductUpdate struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Condition   string
	Images      []string
	Course      string
	IsAvailable bool
}

// ProductRepository abstracts listing persistence.
type ProductRepository interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Get(ctx context.Context, productID int) (models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.Product, error)
	Update(ctx context.Context, productID int, upd ProductUpdate) (models.Product, error)
	Delete(ctx context.Context, productID int) error
}

// ProductRepo is a sqlx implementation of ProductRepository.
type ProductRepo struct {
	db *sqlx.DB
}

// NewProductRepo constructs a ProductRepo.
func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create inserts a new listing.
func (r *ProductRepo) Create(ctx context.Context, p models.Product) (models.Product, error) {
	var created models.Product
	err := r.db.QueryRowxContext(ctx, `INSERT INTO products (title, description, price, category, condition, images, university, course, seller_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING `+productColumns,
		p.Title, p.Description, p.Price, p.Category, p.Condition, pq.Array([]string(p.Images)), p.University, p.Course, p.SellerID).
		StructScan(&created)
	return created, err
}

// Get fetches a single listing.
func (r *ProductRepo) Get(ctx context.Context, productID int) (models.Product, error) {
	var product models.Product
	err := r.db.GetContext(ctx, &product, `SELECT `+productColumns+` FROM products WHERE id=$1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return product, err
}

// sortColumns whitelists client-supplied sort keys.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"title":     "title",
}

// List returns available listings matching the filter plus the unpaginated total.
func (r *ProductRepo) List(ctx context.Context, filter ProductFilter) ([]models.Product, int, error) {
	where := []string{"is_available = TRUE"}
	args := []interface{}{}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.University != "" {
		addArg("university = $%d", filter.University)
	}
	if filter.Category != "" {
		addArg("category = $%d", filter.Category)
	}
	if filter.Course != "" {
		addArg("course = $%d", filter.Course)
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products WHERE `+whereClause, args...); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, sortCol, direction, direction, len(args)-1, len(args))

	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListByIDs fetches multiple listings in one query for response population.
func (r *ProductRepo) ListByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	err := r.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, pq.Array(ids))
	return products, err
}

// Update rewrites the mutable fields of a listing.
func (r *ProductRepo) Update(ctx context.Context, productID int, upd ProductUpdate) (models.Product, error) {
	var updated models.Product
	err := r.db.QueryRowxContext(ctx, `UPDATE products SET title=$1, description=$2, price=$3, category=$4, condition=$5, images=$6, course=$7, is_available=$8
        WHERE id=$9 RETURNING `+productColumns,
		upd.Title, upd.Description, upd.Price, upd.Category, upd.Condition, pq.Array(upd.Images), upd.Course, upd.IsAvailable, productID).
		StructScan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return updated, err
}

// Delete removes a listing.
func (r *ProductRepo) Delete(ctx context.Context, productID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, productID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProductNotFound
	}
	return nil
}
