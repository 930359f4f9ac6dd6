package dto

import (
	"unibook/internal/domains/history/model"
	"unibook/shared/constant"
	"unibook/shared/timezone"
)

type EntryResponse struct {
	Action    string  `json:"action"`
	Timestamp string  `json:"timestamp"`
	Reason    *string `json:"reason"`
	User      string  `json:"user"`
}

func (e *EntryResponse) FromModel(model model.Entry) {
	e.Action = model.Action.String()
	e.Timestamp = timezone.Format(model.ActionTime, constant.DateFormat)
	e.Reason = model.Reason
	e.User = model.UserName
}

// FromModels always returns a non-nil slice so an empty history encodes as [].
func FromModels(models []model.Entry) []EntryResponse {
	res := make([]EntryResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
