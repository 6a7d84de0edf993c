package repository

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// RequestRepository define la interfaz para las solicitudes de traspaso
type RequestRepository interface {
	CreateRequest(ctx context.Context, request *models.Request) error
	GetRequestByID(ctx context.Context, id string) (*models.Request, error)
	ListRequestsByStatus(ctx context.Context, status string) ([]*models.Request, error)
	ListRequestsByBranch(ctx context.Context, branchID string) ([]*models.Request, error)
	ListAllRequests(ctx context.Context) ([]*models.Request, error)
	UpdateRequest(ctx context.Context, request *models.Request) error
	DeleteRequest(ctx context.Context, id string) error
}

type requestRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

const requestColumns = `
	id, item_id, qty, from_branch_id, to_branch_id, created_by, note,
	priority, urgent_note, image, status, driver_id, assigned_at, assigned_by,
	delivery_eta, delivery_eta_label, delivered_at, received_by, created_at
`

// NewRequestRepository crea una nueva instancia del repository
func NewRequestRepository(db *sql.DB) (RequestRepository, error) {
	repo := &requestRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := repo.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return repo, nil
}

func (r *requestRepository) prepareStatements() error {
	statements := map[string]string{
		"create_request": `
			INSERT INTO requests
			(id, item_id, qty, from_branch_id, to_branch_id, created_by, note,
			 priority, urgent_note, image, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at
		`,
		"get_request": `
			SELECT ` + requestColumns + `
			FROM requests
			WHERE id = $1
		`,
		"list_by_status": `
			SELECT ` + requestColumns + `
			FROM requests
			WHERE status = $1
			ORDER BY created_at DESC
		`,
		"list_by_branch": `
			SELECT ` + requestColumns + `
			FROM requests
			WHERE to_branch_id = $1
			ORDER BY created_at DESC
		`,
		"list_all": `
			SELECT ` + requestColumns + `
			FROM requests
			ORDER BY created_at DESC
		`,
		"update_request": `
			UPDATE requests
			SET status = $1, driver_id = $2, assigned_at = $3, assigned_by = $4,
			    delivery_eta = $5, delivery_eta_label = $6, delivered_at = $7, received_by = $8
			WHERE id = $9
		`,
		"delete_request": `
			DELETE FROM requests WHERE id = $1
		`,
	}

	for name, query := range statements {
		stmt, err := r.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare %s: %w", name, err)
		}
		r.stmts[name] = stmt
	}

	return nil
}

// CreateRequest inserta una solicitud nueva en estado pending
func (r *requestRepository) CreateRequest(ctx context.Context, request *models.Request) error {
	err := r.stmts["create_request"].QueryRowContext(ctx,
		request.ID, request.ItemID, request.Qty, request.FromBranchID, request.ToBranchID,
		request.CreatedBy, request.Note, request.Priority, request.UrgentNote,
		request.Image, request.Status,
	).Scan(&request.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// GetRequestByID obtiene una solicitud; nil si no existe
func (r *requestRepository) GetRequestByID(ctx context.Context, id string) (*models.Request, error) {
	request, err := scanRequest(r.stmts["get_request"].QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return request, nil
}

// ListRequestsByStatus lista solicitudes por estado (todas las sucursales)
func (r *requestRepository) ListRequestsByStatus(ctx context.Context, status string) ([]*models.Request, error) {
	return r.queryRequests(ctx, "list_by_status", status)
}

// ListRequestsByBranch lista solicitudes con destino en una sucursal
func (r *requestRepository) ListRequestsByBranch(ctx context.Context, branchID string) ([]*models.Request, error) {
	return r.queryRequests(ctx, "list_by_branch", branchID)
}

// ListAllRequests lista todas las solicitudes (para el export)
func (r *requestRepository) ListAllRequests(ctx context.Context) ([]*models.Request, error) {
	return r.queryRequests(ctx, "list_all")
}

// UpdateRequest persiste los campos mutables del ciclo de vida
func (r *requestRepository) UpdateRequest(ctx context.Context, request *models.Request) error {
	result, err := r.stmts["update_request"].ExecContext(ctx,
		request.Status, request.DriverID, request.AssignedAt, request.AssignedBy,
		request.DeliveryEta, request.DeliveryEtaLabel, request.DeliveredAt, request.ReceivedBy,
		request.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no request record found for id %s", request.ID)
	}

	return nil
}

// DeleteRequest elimina una solicitud
func (r *requestRepository) DeleteRequest(ctx context.Context, id string) error {
	if _, err := r.stmts["delete_request"].ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}

func (r *requestRepository) queryRequests(ctx context.Context, stmt string, args ...interface{}) ([]*models.Request, error) {
	rows, err := r.stmts[stmt].QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// rowScanner abstrae *sql.Row y *sql.Rows para compartir el scan
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*models.Request, error) {
	var request models.Request
	var driverID, assignedBy, etaLabel, receivedBy sql.NullString
	var assignedAt, deliveryEta, deliveredAt sql.NullTime

	err := row.Scan(
		&request.ID, &request.ItemID, &request.Qty, &request.FromBranchID, &request.ToBranchID,
		&request.CreatedBy, &request.Note, &request.Priority, &request.UrgentNote,
		&request.Image, &request.Status, &driverID, &assignedAt, &assignedBy,
		&deliveryEta, &etaLabel, &deliveredAt, &receivedBy, &request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		request.DriverID = &driverID.String
	}
	if assignedBy.Valid {
		request.AssignedBy = &assignedBy.String
	}
	if etaLabel.Valid {
		request.DeliveryEtaLabel = &etaLabel.String
	}
	if receivedBy.Valid {
		request.ReceivedBy = &receivedBy.String
	}
	if assignedAt.Valid {
		request.AssignedAt = &assignedAt.Time
	}
	if deliveryEta.Valid {
		request.DeliveryEta = &deliveryEta.Time
	}
	if deliveredAt.Valid {
		request.DeliveredAt = &deliveredAt.Time
	}

	return &request, nil
}
