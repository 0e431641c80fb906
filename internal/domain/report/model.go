package report

import (
	"time"

	"github.com/google/uuid"
)

// Report maps to the report table. The file content itself lives in the
// blob store under FileName; FilePath records where the blob was written.
type Report struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Name      string    `db:"name" json:"name"`
	FileName  string    `db:"file_name" json:"file_name"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileType  string    `db:"file_type" json:"file_type"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
