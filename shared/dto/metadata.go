package dto

import (
	"fieldbook/shared/constant"
	"fieldbook/shared/model"
	"fieldbook/shared/timezone"
)

// Metadata renders the audit trail. The modification fields stay empty for rows never
// changed after creation.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(meta model.Metadata) {
	m.CreatedAt = timezone.Format(meta.CreatedAt, constant.DateTimeFormat)
	m.CreatedBy = meta.CreatedBy

	if meta.Modified() {
		m.ModifiedAt = timezone.Format(meta.ModifiedAt, constant.DateTimeFormat)
		m.ModifiedBy = meta.ModifiedBy
	}
}
