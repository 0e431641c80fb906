package report

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrec/medrec/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cols = `id, patient_id, name, file_name, file_path, file_type, file_size, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Report, error) {
	var rep Report
	err := row.Scan(&rep.ID, &rep.PatientID, &rep.Name, &rep.FileName,
		&rep.FilePath, &rep.FileType, &rep.FileSize, &rep.CreatedAt, &rep.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repoPG) Create(ctx context.Context, rep *Report) error {
	rep.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO report (id, patient_id, name, file_name, file_path, file_type, file_size)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rep.ID, rep.PatientID, rep.Name, rep.FileName, rep.FilePath, rep.FileType, rep.FileSize)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM report WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Report, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM report WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Report
	for rows.Next() {
		rep, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rep)
	}
	return items, nil
}

func (r *repoPG) Update(ctx context.Context, rep *Report) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE report SET name=$2, file_name=$3, file_path=$4, file_type=$5, file_size=$6, updated_at=NOW()
		WHERE id = $1`,
		rep.ID, rep.Name, rep.FileName, rep.FilePath, rep.FileType, rep.FileSize)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM report WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
