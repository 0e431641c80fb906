package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. UID is the human-assigned external
// identifier every patient-scoped lookup keys on; ID is the internal
// system-assigned identifier other records reference.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UID       string    `db:"uid" json:"uid"`
	Name      string    `db:"name" json:"name"`
	Age       int       `db:"age" json:"age"`
	Gender    string    `db:"gender" json:"gender"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
