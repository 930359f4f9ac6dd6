package dto

import "unibook/internal/domains/holiday/model"

type HolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

func (h *HolidayResponse) FromModel(model model.Holiday) {
	h.ID = model.ID
	h.Date = model.Day()
	h.Name = model.Name
}

type GetHolidaysResponse struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Holidays  []HolidayResponse `json:"holidays"`
}

func (g *GetHolidaysResponse) FromModels(models []model.Holiday, startDate, endDate string) {
	g.StartDate = startDate
	g.EndDate = endDate

	g.Holidays = make([]HolidayResponse, len(models))
	for i, mod := range models {
		g.Holidays[i].FromModel(mod)
	}
}
