package dto

import (
	"time"

	historyModel "unibook/internal/domains/history/model"
	"unibook/shared/constant"
	"unibook/shared/failure"
	"unibook/shared/timezone"
)

// ExportRequest selects the history window to export. Both bounds are inclusive.
type ExportRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"   validate:"required"`
}

// Window parses the request bounds.
func (r ExportRequest) Window() (start, end time.Time, err error) {
	start, err = timezone.Parse(constant.DateFormat, r.StartTime)
	if err != nil {
		return start, end, failure.BadRequestFromString("start_time must be an RFC3339 timestamp: " + err.Error())
	}

	end, err = timezone.Parse(constant.DateFormat, r.EndTime)
	if err != nil {
		return start, end, failure.BadRequestFromString("end_time must be an RFC3339 timestamp: " + err.Error())
	}

	if end.Before(start) {
		return start, end, failure.InvalidDate("end time must not be before start time")
	}

	return start, end, nil
}

type ExportResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	Rows     int    `json:"rows"`
}

type EntryResponse struct {
	BookingID string  `json:"booking_id"`
	UserID    string  `json:"user_id"`
	User      string  `json:"user"`
	Action    string  `json:"action"`
	Reason    *string `json:"reason"`
	Timestamp string  `json:"timestamp"`
}

func (e *EntryResponse) FromModel(model historyModel.Entry) {
	e.BookingID = model.BookingID
	e.UserID = model.UserID
	e.User = model.UserName
	e.Action = model.Action.String()
	e.Reason = model.Reason
	e.Timestamp = timezone.Format(model.ActionTime, constant.DateFormat)
}

type HistoryReportResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int             `json:"total"`
}

func (h *HistoryReportResponse) FromModels(models []historyModel.Entry) {
	h.Entries = make([]EntryResponse, len(models))
	for i, mod := range models {
		h.Entries[i].FromModel(mod)
	}

	h.Total = len(models)
}
