package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"brasa_ops_backend/internal/models"
)

// InventoryRepository reads the inventory/invoice ledger owned by external
// collaborators: physical counts, purchase (invoice) lines, and the manual
// "no delivery" flag. Everything except the flag is read-only here.
type InventoryRepository interface {
	// GetLatestCounts returns the most recent physical count per protein on or
	// after `since`, newest first deduplicated to one row per protein.
	GetLatestCounts(storeID int64, since time.Time) (map[string]models.PhysicalCount, error)
	// GetPurchases returns all purchase lines in [from, to).
	GetPurchases(storeID int64, from, to time.Time) ([]models.PurchaseRecord, error)
	// CountInvoicesOn counts invoice lines logged for the given business date.
	CountInvoicesOn(storeID int64, date time.Time) (int, error)
	GetNoDeliveryFlag(storeID int64, date time.Time) (bool, error)
	// SetNoDeliveryFlag records the flag for a date. Idempotent: setting an
	// already-set flag is not an error.
	SetNoDeliveryFlag(executor SQLExecutor, storeID int64, date time.Time, setBy int64) error
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetLatestCounts(storeID int64, since time.Time) (map[string]models.PhysicalCount, error) {
	query := `
		SELECT id, store_id, protein, quantity_lbs, count_date
		FROM physical_counts
		WHERE store_id = $1 AND count_date >= $2
		ORDER BY count_date DESC, id DESC`
	rows, err := r.db.Query(query, storeID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: querying physical counts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	latest := make(map[string]models.PhysicalCount)
	for rows.Next() {
		var c models.PhysicalCount
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Protein, &c.QuantityLbs, &c.CountDate); err != nil {
			return nil, fmt.Errorf("%w: scanning physical count: %v", ErrDatabaseError, err)
		}
		// Rows arrive newest first; keep only the first row per protein.
		if _, seen := latest[c.Protein]; !seen {
			latest[c.Protein] = c
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating physical counts: %v", ErrDatabaseError, err)
	}
	return latest, nil
}

func (r *inventoryRepository) GetPurchases(storeID int64, from, to time.Time) ([]models.PurchaseRecord, error) {
	query := `
		SELECT id, store_id, protein, quantity_lbs, purchase_date
		FROM purchase_records
		WHERE store_id = $1 AND purchase_date >= $2 AND purchase_date < $3
		ORDER BY purchase_date ASC`
	rows, err := r.db.Query(query, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: querying purchase records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var purchases []models.PurchaseRecord
	for rows.Next() {
		var p models.PurchaseRecord
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Protein, &p.QuantityLbs, &p.Date); err != nil {
			return nil, fmt.Errorf("%w: scanning purchase record: %v", ErrDatabaseError, err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating purchase records: %v", ErrDatabaseError, err)
	}
	return purchases, nil
}

func (r *inventoryRepository) CountInvoicesOn(storeID int64, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM purchase_records
		WHERE store_id = $1 AND purchase_date >= $2 AND purchase_date < $3`
	var count int
	err := r.db.QueryRow(query, storeID, date, date.AddDate(0, 0, 1)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting invoices: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *inventoryRepository) GetNoDeliveryFlag(storeID int64, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM no_delivery_flags WHERE store_id = $1 AND flag_date = $2
		)`
	var exists bool
	err := r.db.QueryRow(query, storeID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking no-delivery flag: %v", ErrDatabaseError, err)
	}
	return exists, nil
}

func (r *inventoryRepository) SetNoDeliveryFlag(executor SQLExecutor, storeID int64, date time.Time, setBy int64) error {
	query := `
		INSERT INTO no_delivery_flags (store_id, flag_date, set_by, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (store_id, flag_date) DO NOTHING`
	if _, err := executor.Exec(query, storeID, date, setBy); err != nil {
		return fmt.Errorf("%w: setting no-delivery flag: %v", ErrDatabaseError, err)
	}
	return nil
}
