package repository

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// VehicleRepository acceso al registro de vehículos de la flota.
type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO vehicles (id, name, plate, branch_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, vehicle.ID, vehicle.Name, vehicle.Plate, vehicle.BranchID).
		Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func (r VehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	var branchID sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, plate, branch_id, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`, id).Scan(&vehicle.ID, &vehicle.Name, &vehicle.Plate, &branchID,
		&vehicle.CreatedAt, &vehicle.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	if branchID.Valid {
		vehicle.BranchID = &branchID.String
	}
	return &vehicle, nil
}

func (r VehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, plate, branch_id, created_at, updated_at
		FROM vehicles
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		var vehicle models.Vehicle
		var branchID sql.NullString
		err := rows.Scan(&vehicle.ID, &vehicle.Name, &vehicle.Plate, &branchID,
			&vehicle.CreatedAt, &vehicle.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		if branchID.Valid {
			vehicle.BranchID = &branchID.String
		}
		vehicles = append(vehicles, &vehicle)
	}

	return vehicles, rows.Err()
}

func (r VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE vehicles
		SET name = $1, plate = $2, branch_id = $3, updated_at = NOW()
		WHERE id = $4
	`, vehicle.Name, vehicle.Plate, vehicle.BranchID, vehicle.ID)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no vehicle record found for id %s", vehicle.ID)
	}
	return nil
}

func (r VehicleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	return nil
}
