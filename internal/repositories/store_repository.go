package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"brasa_ops_backend/internal/models"
)

// StoreRepository reads store settings owned by the company settings
// collaborator: the store roster, per-protein targets and order-day weights.
type StoreRepository interface {
	GetStoreByID(storeID int64) (*models.Store, error)
	GetStoresByCompany(companyID string) ([]models.Store, error)
	// GetProteinTargets returns the store's per-protein lbs-per-guest overrides.
	GetProteinTargets(storeID int64) (map[string]float64, error)
	// GetOrderWeights returns the store's Mon/Wed/Sat order split, or
	// ErrNotFound when the store has not configured one.
	GetOrderWeights(storeID int64) (models.OrderWeights, error)
}

type storeRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a new instance of StoreRepository.
func NewStoreRepository(db *sql.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetStoreByID(storeID int64) (*models.Store, error) {
	query := `
		SELECT id, company_id, store_name, location, target_lbs_guest, created_at, updated_at
		FROM stores
		WHERE id = $1`
	var s models.Store
	err := r.db.QueryRow(query, storeID).Scan(
		&s.ID, &s.CompanyID, &s.StoreName, &s.Location, &s.TargetLbsGuest, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning store: %v", ErrDatabaseError, err)
	}
	return &s, nil
}

func (r *storeRepository) GetStoresByCompany(companyID string) ([]models.Store, error) {
	query := `
		SELECT id, company_id, store_name, location, target_lbs_guest, created_at, updated_at
		FROM stores
		WHERE company_id = $1
		ORDER BY store_name ASC`
	rows, err := r.db.Query(query, companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying stores: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.StoreName, &s.Location, &s.TargetLbsGuest, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning store: %v", ErrDatabaseError, err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stores: %v", ErrDatabaseError, err)
	}
	return stores, nil
}

func (r *storeRepository) GetProteinTargets(storeID int64) (map[string]float64, error) {
	query := `
		SELECT protein, target_lbs_guest
		FROM store_protein_targets
		WHERE store_id = $1`
	rows, err := r.db.Query(query, storeID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying protein targets: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	targets := make(map[string]float64)
	for rows.Next() {
		var protein string
		var target float64
		if err := rows.Scan(&protein, &target); err != nil {
			return nil, fmt.Errorf("%w: scanning protein target: %v", ErrDatabaseError, err)
		}
		targets[protein] = target
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating protein targets: %v", ErrDatabaseError, err)
	}
	return targets, nil
}

func (r *storeRepository) GetOrderWeights(storeID int64) (models.OrderWeights, error) {
	query := `
		SELECT mon_weight, wed_weight, sat_weight
		FROM store_order_weights
		WHERE store_id = $1`
	var w models.OrderWeights
	err := r.db.QueryRow(query, storeID).Scan(&w.Mon, &w.Wed, &w.Sat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OrderWeights{}, ErrNotFound
		}
		return models.OrderWeights{}, fmt.Errorf("%w: scanning order weights: %v", ErrDatabaseError, err)
	}
	return w, nil
}
