// Package storage provides persistence implementations for the dashboard core
// ダッシュボードコア用の永続化実装を提供
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/nemonet1337/hanbaiGoDashboard/pkg/dashboard"
)

// PostgreSQLStorage implements the Storage interface using PostgreSQL
// PostgreSQLを使用したStorageインターフェースの実装
type PostgreSQLStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// インターフェースを実装することを明示
var _ dashboard.Storage = (*PostgreSQLStorage)(nil)

// NewPostgreSQLStorage creates a new PostgreSQL storage instance
// 新しいPostgreSQLストレージインスタンスを作成
func NewPostgreSQLStorage(dsn string, logger *zap.Logger) (*PostgreSQLStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
	}

	// 接続テスト
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("データベースpingに失敗しました: %w", err)
	}

	// 接続プール設定
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgreSQLStorage{
		db:     db,
		logger: logger,
	}, nil
}

// ListRegions lists all regions
// 全地域を取得
func (s *PostgreSQLStorage) ListRegions(ctx context.Context) ([]dashboard.Region, error) {
	query := `SELECT region_id, name FROM regions ORDER BY region_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("地域一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var regions []dashboard.Region
	for rows.Next() {
		var region dashboard.Region
		if err := rows.Scan(&region.ID, &region.Name); err != nil {
			return nil, fmt.Errorf("地域レコードの読み取りに失敗しました: %w", err)
		}
		regions = append(regions, region)
	}
	return regions, rows.Err()
}

// ListLocations lists all locations
// 全ロケーションを取得
func (s *PostgreSQLStorage) ListLocations(ctx context.Context) ([]dashboard.Location, error) {
	query := `SELECT location_id, location_name, region_id FROM locations ORDER BY location_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ロケーション一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var locations []dashboard.Location
	for rows.Next() {
		var location dashboard.Location
		if err := rows.Scan(&location.ID, &location.Name, &location.RegionID); err != nil {
			return nil, fmt.Errorf("ロケーションレコードの読み取りに失敗しました: %w", err)
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}

// ListSuppliers lists all suppliers
// 全サプライヤーを取得
func (s *PostgreSQLStorage) ListSuppliers(ctx context.Context) ([]dashboard.Supplier, error) {
	query := `SELECT supplier_id, name, COALESCE(contact_info, '') FROM suppliers ORDER BY supplier_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("サプライヤー一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var suppliers []dashboard.Supplier
	for rows.Next() {
		var supplier dashboard.Supplier
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.ContactInfo); err != nil {
			return nil, fmt.Errorf("サプライヤーレコードの読み取りに失敗しました: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}

// ListProducts lists all products
// 全商品を取得
func (s *PostgreSQLStorage) ListProducts(ctx context.Context) ([]dashboard.Product, error) {
	query := `
		SELECT product_id, COALESCE(name, ''), COALESCE(category_id, 0), COALESCE(supplier_id, 0),
		       COALESCE(price, 0), COALESCE(shelf_life_days, 0), COALESCE(reorder_point, 0)
		FROM products ORDER BY product_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("商品一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var products []dashboard.Product
	for rows.Next() {
		var product dashboard.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.CategoryID, &product.SupplierID,
			&product.Price, &product.ShelfLifeDays, &product.ReorderPoint); err != nil {
			return nil, fmt.Errorf("商品レコードの読み取りに失敗しました: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// filterClause builds the optional scope predicate for filterable
// collections. A location filter wins over a region filter.
// 絞り込み条件を組み立てる（ロケーション指定が地域指定に優先）
func filterClause(selection dashboard.FilterSelection, locationColumn, regionColumn string) (string, []interface{}) {
	if selection.LocationID != nil {
		return fmt.Sprintf(" WHERE %s = $1", locationColumn), []interface{}{*selection.LocationID}
	}
	if selection.RegionID != nil {
		return fmt.Sprintf(" WHERE %s = $1", regionColumn), []interface{}{*selection.RegionID}
	}
	return "", nil
}

// ListInventory lists inventory records, optionally narrowed by the selection
// 在庫レコードを取得（絞り込み任意）
func (s *PostgreSQLStorage) ListInventory(ctx context.Context, selection dashboard.FilterSelection) ([]dashboard.InventoryRecord, error) {
	query := `
		SELECT i.inventory_id, i.location_id, COALESCE(l.location_name, ''),
		       i.product_id, COALESCE(p.name, ''), i.quantity, COALESCE(i.last_updated, NOW())
		FROM inventory i
		LEFT JOIN locations l ON l.location_id = i.location_id
		LEFT JOIN products p ON p.product_id = i.product_id`

	clause, args := filterClause(selection, "i.location_id", "l.region_id")
	query += clause + " ORDER BY i.inventory_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("在庫一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var records []dashboard.InventoryRecord
	for rows.Next() {
		var record dashboard.InventoryRecord
		if err := rows.Scan(&record.InventoryID, &record.LocationID, &record.LocationName,
			&record.ProductID, &record.ProductName, &record.Quantity, &record.LastUpdated); err != nil {
			return nil, fmt.Errorf("在庫レコードの読み取りに失敗しました: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListSales lists sale records, optionally narrowed by the selection
// 販売レコードを取得（絞り込み任意）
func (s *PostgreSQLStorage) ListSales(ctx context.Context, selection dashboard.FilterSelection) ([]dashboard.SaleRecord, error) {
	query := `
		SELECT sa.sale_id, sa.location_id, COALESCE(l.location_name, ''),
		       sa.product_id, COALESCE(p.name, ''), sa.quantity, sa.total_price,
		       COALESCE(sa.reference, ''), COALESCE(sa.timestamp, NOW())
		FROM sales sa
		LEFT JOIN locations l ON l.location_id = sa.location_id
		LEFT JOIN products p ON p.product_id = sa.product_id`

	clause, args := filterClause(selection, "sa.location_id", "l.region_id")
	query += clause + " ORDER BY sa.sale_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("販売一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var records []dashboard.SaleRecord
	for rows.Next() {
		var record dashboard.SaleRecord
		if err := rows.Scan(&record.SaleID, &record.LocationID, &record.LocationName,
			&record.ProductID, &record.ProductName, &record.Quantity, &record.TotalPrice,
			&record.Reference, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("販売レコードの読み取りに失敗しました: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListOrders lists supplier orders, optionally narrowed by the selection
// 発注レコードを取得（絞り込み任意）
func (s *PostgreSQLStorage) ListOrders(ctx context.Context, selection dashboard.FilterSelection) ([]dashboard.OrderRecord, error) {
	query := `
		SELECT o.order_id, o.supplier_id, COALESCE(su.name, ''),
		       o.location_id, COALESCE(l.location_name, ''), o.status,
		       COALESCE(o.reference, ''), COALESCE(o.created_at, NOW())
		FROM orders o
		LEFT JOIN suppliers su ON su.supplier_id = o.supplier_id
		LEFT JOIN locations l ON l.location_id = o.location_id`

	clause, args := filterClause(selection, "o.location_id", "l.region_id")
	query += clause + " ORDER BY o.order_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("発注一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var records []dashboard.OrderRecord
	for rows.Next() {
		var record dashboard.OrderRecord
		if err := rows.Scan(&record.OrderID, &record.SupplierID, &record.SupplierName,
			&record.LocationID, &record.LocationName, &record.Status, &record.Reference,
			&record.CreatedAt); err != nil {
			return nil, fmt.Errorf("発注レコードの読み取りに失敗しました: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CreateSale inserts a new sale and returns the created row with joined names
// 新しい販売を登録し、表示名結合済みの行を返す
func (s *PostgreSQLStorage) CreateSale(ctx context.Context, sale dashboard.NewSale) (*dashboard.SaleRecord, error) {
	query := `
		INSERT INTO sales (location_id, product_id, quantity, total_price, reference, timestamp)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING sale_id`

	var saleID int64
	err := s.db.QueryRowContext(ctx, query,
		sale.LocationID, sale.ProductID, sale.Quantity, sale.TotalPrice, sale.Reference).Scan(&saleID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("販売登録の参照先が存在しません: %w", mapForeignKey(pqErr))
		}
		return nil, fmt.Errorf("販売登録に失敗しました: %w", err)
	}

	return s.getSale(ctx, saleID)
}

// getSale fetches one sale row with joined display names
// 表示名結合済みの販売行を1件取得
func (s *PostgreSQLStorage) getSale(ctx context.Context, saleID int64) (*dashboard.SaleRecord, error) {
	query := `
		SELECT sa.sale_id, sa.location_id, COALESCE(l.location_name, ''),
		       sa.product_id, COALESCE(p.name, ''), sa.quantity, sa.total_price,
		       COALESCE(sa.reference, ''), COALESCE(sa.timestamp, NOW())
		FROM sales sa
		LEFT JOIN locations l ON l.location_id = sa.location_id
		LEFT JOIN products p ON p.product_id = sa.product_id
		WHERE sa.sale_id = $1`

	var record dashboard.SaleRecord
	err := s.db.QueryRowContext(ctx, query, saleID).Scan(
		&record.SaleID, &record.LocationID, &record.LocationName,
		&record.ProductID, &record.ProductName, &record.Quantity, &record.TotalPrice,
		&record.Reference, &record.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("販売レコード取得に失敗しました: %w", err)
	}
	return &record, nil
}

// CreateOrder inserts a new supplier order and returns the created row
// 新しいサプライヤー発注を登録し、作成済みの行を返す
func (s *PostgreSQLStorage) CreateOrder(ctx context.Context, order dashboard.NewOrder) (*dashboard.OrderRecord, error) {
	query := `
		INSERT INTO orders (supplier_id, location_id, status, reference, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING order_id`

	var orderID int64
	err := s.db.QueryRowContext(ctx, query,
		order.SupplierID, order.LocationID, string(order.Status), order.Reference).Scan(&orderID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("発注登録の参照先が存在しません: %w", mapForeignKey(pqErr))
		}
		return nil, fmt.Errorf("発注登録に失敗しました: %w", err)
	}

	return s.getOrder(ctx, orderID)
}

// getOrder fetches one order row with joined display names
// 表示名結合済みの発注行を1件取得
func (s *PostgreSQLStorage) getOrder(ctx context.Context, orderID int64) (*dashboard.OrderRecord, error) {
	query := `
		SELECT o.order_id, o.supplier_id, COALESCE(su.name, ''),
		       o.location_id, COALESCE(l.location_name, ''), o.status,
		       COALESCE(o.reference, ''), COALESCE(o.created_at, NOW())
		FROM orders o
		LEFT JOIN suppliers su ON su.supplier_id = o.supplier_id
		LEFT JOIN locations l ON l.location_id = o.location_id
		WHERE o.order_id = $1`

	var record dashboard.OrderRecord
	err := s.db.QueryRowContext(ctx, query, orderID).Scan(
		&record.OrderID, &record.SupplierID, &record.SupplierName,
		&record.LocationID, &record.LocationName, &record.Status, &record.Reference,
		&record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("発注レコード取得に失敗しました: %w", err)
	}
	return &record, nil
}

// ApplyInventoryDelta applies a signed quantity change to an inventory
// record. The update is guarded so the stored quantity never goes negative.
// 在庫レコードに増減を適用（数量が負にならないようガード）
func (s *PostgreSQLStorage) ApplyInventoryDelta(ctx context.Context, delta dashboard.InventoryDelta) (*dashboard.InventoryRecord, error) {
	query := `
		UPDATE inventory
		SET quantity = quantity + $3, last_updated = NOW()
		WHERE location_id = $1 AND product_id = $2 AND quantity + $3 >= 0
		RETURNING inventory_id`

	var inventoryID int64
	err := s.db.QueryRowContext(ctx, query,
		delta.LocationID, delta.ProductID, delta.Delta).Scan(&inventoryID)
	if err == sql.ErrNoRows {
		// 行が存在しないのか、数量ガードで弾かれたのかを判別
		var exists bool
		checkErr := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM inventory WHERE location_id = $1 AND product_id = $2)`,
			delta.LocationID, delta.ProductID).Scan(&exists)
		if checkErr != nil {
			return nil, fmt.Errorf("在庫レコード確認に失敗しました: %w", checkErr)
		}
		if !exists {
			return nil, dashboard.ErrInventoryNotFound
		}
		return nil, dashboard.ErrInsufficientStock
	}
	if err != nil {
		return nil, fmt.Errorf("在庫調整に失敗しました: %w", err)
	}

	return s.getInventory(ctx, inventoryID)
}

// getInventory fetches one inventory row with joined display names
// 表示名結合済みの在庫行を1件取得
func (s *PostgreSQLStorage) getInventory(ctx context.Context, inventoryID int64) (*dashboard.InventoryRecord, error) {
	query := `
		SELECT i.inventory_id, i.location_id, COALESCE(l.location_name, ''),
		       i.product_id, COALESCE(p.name, ''), i.quantity, COALESCE(i.last_updated, NOW())
		FROM inventory i
		LEFT JOIN locations l ON l.location_id = i.location_id
		LEFT JOIN products p ON p.product_id = i.product_id
		WHERE i.inventory_id = $1`

	var record dashboard.InventoryRecord
	err := s.db.QueryRowContext(ctx, query, inventoryID).Scan(
		&record.InventoryID, &record.LocationID, &record.LocationName,
		&record.ProductID, &record.ProductName, &record.Quantity, &record.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("在庫レコード取得に失敗しました: %w", err)
	}
	return &record, nil
}

// mapForeignKey maps a foreign key violation to a domain error
// 外部キー違反をドメインエラーにマッピング
func mapForeignKey(pqErr *pq.Error) error {
	switch pqErr.Constraint {
	case "sales_location_id_fkey", "orders_location_id_fkey", "inventory_location_id_fkey":
		return dashboard.ErrLocationNotFound
	case "sales_product_id_fkey", "inventory_product_id_fkey":
		return dashboard.ErrProductNotFound
	case "orders_supplier_id_fkey":
		return dashboard.ErrSupplierNotFound
	}
	return pqErr
}

// Ping checks database connectivity
// データベース接続を確認
func (s *PostgreSQLStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
// データベース接続を閉じる
func (s *PostgreSQLStorage) Close() error {
	return s.db.Close()
}
