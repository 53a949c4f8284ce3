package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusMapping maps an external CRM status string to an outcome category.
// Operators maintain these; the sync pipeline only reads them.
// Unique on (external_status, record_type). Matching is exact and
// case-sensitive: operators copy the exact external value.
type StatusMapping struct {
	ID             uuid.UUID  `json:"id"`
	ExternalStatus string     `json:"external_status"`
	RecordType     RecordType `json:"record_type"`
	Category       Category   `json:"category"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
