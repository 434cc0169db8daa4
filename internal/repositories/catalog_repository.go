package repositories

import (
	"database/sql"
	"fmt"

	"brasa_ops_backend/internal/models"
)

// CatalogRepository reads the company protein catalog owned by the product
// settings collaborator.
type CatalogRepository interface {
	GetProteinCatalog(companyID string) ([]models.Protein, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetProteinCatalog(companyID string) ([]models.Protein, error) {
	query := `
		SELECT id, company_id, name, unit_weight_lbs, unit_name, is_villain, is_dinner_only, cost_per_lb, created_at
		FROM protein_catalog
		WHERE company_id = $1
		ORDER BY name ASC`
	rows, err := r.db.Query(query, companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying protein catalog: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var proteins []models.Protein
	for rows.Next() {
		var p models.Protein
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.UnitWeightLbs, &p.UnitName,
			&p.IsVillain, &p.IsDinnerOnly, &p.CostPerLb, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning protein: %v", ErrDatabaseError, err)
		}
		proteins = append(proteins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating protein catalog: %v", ErrDatabaseError, err)
	}
	return proteins, nil
}
