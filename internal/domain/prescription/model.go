package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Prescription maps to the prescription table. PatientID references the
// internal patient identifier, not the external UID.
type Prescription struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	Medication   string    `db:"medication" json:"medication"`
	Dosage       string    `db:"dosage" json:"dosage"`
	Instructions string    `db:"instructions" json:"instructions,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
