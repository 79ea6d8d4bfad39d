package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BetoIII/atlas-lease-extractor/pkg/leaseledger"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements leaseledger.Repository using PostgreSQL
type Repository struct {
	db   DBTX
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL repository over an existing connection or
// transaction. WithTx is only available on pool-backed repositories.
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool, pool: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: duplicate entry on %s", leaseledger.ErrIntegrityViolation, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: referenced record not found", leaseledger.ErrIntegrityViolation)
		case "23502": // not_null_violation
			return fmt.Errorf("%w: required field %s is missing", leaseledger.ErrIntegrityViolation, pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - run CreateTables first")
		}
	}
	// Keep the underlying message intact: the ledger's retry policy matches
	// transient connectivity failures by message signature.
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// CreateTables performs idempotent schema creation
func (r *Repository) CreateTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255),
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			title VARCHAR(512) NOT NULL,
			file_ref VARCHAR(1024) NOT NULL,
			owner_id UUID NOT NULL REFERENCES users(id),
			sharing_mode VARCHAR(20) NOT NULL,
			asset_type VARCHAR(50) NOT NULL DEFAULT 'office',
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			ownership_type VARCHAR(50) NOT NULL DEFAULT 'owned',
			license_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
			shared_emails TEXT[],
			extracted_data JSONB,
			risk_flags TEXT[],
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			updated_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id UUID PRIMARY KEY,
			document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			action VARCHAR(100) NOT NULL,
			category VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'success',
			actor_id VARCHAR(255) NOT NULL,
			actor_name VARCHAR(255),
			tx_hash VARCHAR(66) NOT NULL,
			block_number BIGINT NOT NULL,
			gas_used BIGINT NOT NULL,
			details TEXT,
			extra_data JSONB,
			revenue_impact DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_document ON activities(document_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return r.handlePostgresError("create tables", err)
		}
	}
	return nil
}

// WithTx runs fn inside one pgx transaction
func (r *Repository) WithTx(ctx context.Context, fn func(leaseledger.Repository) error) error {
	if r.pool == nil {
		// Already transaction-scoped; run in the same transaction.
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.handlePostgresError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Repository{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return r.handlePostgresError("commit transaction", err)
	}
	return nil
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *leaseledger.User) error {
	query := `
		INSERT INTO users (id, email, name, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.Name, user.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create user", err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*leaseledger.User, error) {
	query := `SELECT id, email, name, created_at FROM users WHERE id = $1`

	var user leaseledger.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leaseledger.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user", err)
	}
	return &user, nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *leaseledger.User) error {
	query := `UPDATE users SET email = $2, name = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, user.ID, user.Email, user.Name)
	if err != nil {
		return r.handlePostgresError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return leaseledger.ErrUserNotFound
	}
	return nil
}

// Document operations

func (r *Repository) CreateDocument(ctx context.Context, doc *leaseledger.Document) error {
	query := `
		INSERT INTO documents (
			id, title, file_ref, owner_id, sharing_mode, asset_type,
			status, ownership_type, license_fee, total_revenue,
			shared_emails, extracted_data, risk_flags, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		doc.ID, doc.Title, doc.FileRef, doc.OwnerID, doc.SharingMode,
		doc.AssetType, doc.Status, doc.OwnershipType, doc.LicenseFee,
		doc.TotalRevenue, doc.SharedEmails, doc.ExtractedData, doc.RiskFlags,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create document", err)
	}
	return nil
}

func (r *Repository) GetDocument(ctx context.Context, id uuid.UUID) (*leaseledger.Document, error) {
	query := `
		SELECT id, title, file_ref, owner_id, sharing_mode, asset_type,
		       status, ownership_type, license_fee, total_revenue,
		       shared_emails, extracted_data, risk_flags, created_at, updated_at
		FROM documents WHERE id = $1`

	doc, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leaseledger.ErrDocumentNotFound
		}
		return nil, r.handlePostgresError("get document", err)
	}
	return doc, nil
}

func (r *Repository) UpdateDocument(ctx context.Context, doc *leaseledger.Document) error {
	query := `
		UPDATE documents SET
			title = $2, file_ref = $3, status = $4, license_fee = $5,
			total_revenue = $6, shared_emails = $7, extracted_data = $8,
			risk_flags = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		doc.ID, doc.Title, doc.FileRef, doc.Status, doc.LicenseFee,
		doc.TotalRevenue, doc.SharedEmails, doc.ExtractedData, doc.RiskFlags,
		doc.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update document", err)
	}
	if tag.RowsAffected() == 0 {
		return leaseledger.ErrDocumentNotFound
	}
	return nil
}

func (r *Repository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	// Activities cascade via the foreign key.
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete document", err)
	}
	if tag.RowsAffected() == 0 {
		return leaseledger.ErrDocumentNotFound
	}
	return nil
}

func (r *Repository) ListDocumentsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*leaseledger.Document, error) {
	query := `
		SELECT id, title, file_ref, owner_id, sharing_mode, asset_type,
		       status, ownership_type, license_fee, total_revenue,
		       shared_emails, extracted_data, risk_flags, created_at, updated_at
		FROM documents WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, r.handlePostgresError("list documents by owner", err)
	}
	defer rows.Close()

	docs := []*leaseledger.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan document", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate document rows", err)
	}
	return docs, nil
}

func scanDocument(row pgx.Row) (*leaseledger.Document, error) {
	var doc leaseledger.Document
	err := row.Scan(
		&doc.ID, &doc.Title, &doc.FileRef, &doc.OwnerID, &doc.SharingMode,
		&doc.AssetType, &doc.Status, &doc.OwnershipType, &doc.LicenseFee,
		&doc.TotalRevenue, &doc.SharedEmails, &doc.ExtractedData,
		&doc.RiskFlags, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Activity operations (append-only: there is deliberately no update or
// delete statement for activities)

func (r *Repository) CreateActivity(ctx context.Context, activity *leaseledger.Activity) error {
	query := `
		INSERT INTO activities (
			id, document_id, action, category, status, actor_id, actor_name,
			tx_hash, block_number, gas_used, details, extra_data,
			revenue_impact, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		activity.ID, activity.DocumentID, activity.Action, activity.Category,
		activity.Status, activity.ActorID, activity.ActorName, activity.TxHash,
		activity.BlockNumber, activity.GasUsed, activity.Details,
		activity.ExtraData, activity.RevenueImpact, activity.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create activity", err)
	}
	return nil
}

func (r *Repository) GetActivity(ctx context.Context, id uuid.UUID) (*leaseledger.Activity, error) {
	query := `
		SELECT id, document_id, action, category, status, actor_id, actor_name,
		       tx_hash, block_number, gas_used, details, extra_data,
		       revenue_impact, created_at
		FROM activities WHERE id = $1`

	activity, err := scanActivity(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leaseledger.ErrActivityNotFound
		}
		return nil, r.handlePostgresError("get activity", err)
	}
	return activity, nil
}

func (r *Repository) ListActivitiesByDocument(ctx context.Context, documentID uuid.UUID) ([]*leaseledger.Activity, error) {
	query := `
		SELECT id, document_id, action, category, status, actor_id, actor_name,
		       tx_hash, block_number, gas_used, details, extra_data,
		       revenue_impact, created_at
		FROM activities WHERE document_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, r.handlePostgresError("list activities by document", err)
	}
	defer rows.Close()

	activities := []*leaseledger.Activity{}
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan activity", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate activity rows", err)
	}
	return activities, nil
}

func scanActivity(row pgx.Row) (*leaseledger.Activity, error) {
	var activity leaseledger.Activity
	err := row.Scan(
		&activity.ID, &activity.DocumentID, &activity.Action,
		&activity.Category, &activity.Status, &activity.ActorID,
		&activity.ActorName, &activity.TxHash, &activity.BlockNumber,
		&activity.GasUsed, &activity.Details, &activity.ExtraData,
		&activity.RevenueImpact, &activity.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}
