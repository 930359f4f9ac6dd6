package dto

import (
	"time"

	"unibook/shared/constant"
	"unibook/shared/model"
	"unibook/shared/timezone"
)

// Metadata is the audit stamp of a row rendered in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(stamp model.Metadata) {
	*m = Metadata{
		CreatedAt:  formatStamp(stamp.CreatedAt),
		ModifiedAt: formatStamp(stamp.ModifiedAt),
		CreatedBy:  stamp.CreatedBy,
		ModifiedBy: stamp.ModifiedBy,
	}
}

func formatStamp(at time.Time) string {
	if at.IsZero() {
		return constant.Empty
	}

	return timezone.Format(at, constant.DateFormat)
}
