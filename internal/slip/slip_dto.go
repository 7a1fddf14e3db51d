package slip

import "time"

type SlipRequest struct {
	SlipDate string `json:"date" binding:"required"`
	Name1    string `json:"name1"`
	Name2    string `json:"name2"`
	Name3    string `json:"name3"`
	Total    int64  `json:"total" binding:"gte=0"`
	SetInfo  string `json:"set"`
	MineIce  string `json:"mine_ice"`
}

type SlipFilter struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type SlipResponse struct {
	ID        string    `json:"id"`
	SlipDate  string    `json:"date"`
	Name1     string    `json:"name1"`
	Name2     string    `json:"name2"`
	Name3     string    `json:"name3"`
	Total     int64     `json:"total"`
	SetInfo   string    `json:"set"`
	MineIce   string    `json:"mine_ice"`
	CreatedAt time.Time `json:"created_at"`
}

type SlipListResponse struct {
	Slips []SlipResponse `json:"slips"`
	Count int            `json:"count"`
	Total int64          `json:"total"`
}

type DailySalesResponse struct {
	Date      string `json:"date"`
	SlipCount int64  `json:"slip_count"`
	Total     int64  `json:"total"`
}

type SalesResponse struct {
	Days  []DailySalesResponse `json:"days"`
	Total int64                `json:"total"`
}

func mapToResponse(s Slip) SlipResponse {
	return SlipResponse{
		ID:        s.ID.String(),
		SlipDate:  s.SlipDate,
		Name1:     s.Name1,
		Name2:     s.Name2,
		Name3:     s.Name3,
		Total:     s.Total,
		SetInfo:   s.SetInfo,
		MineIce:   s.MineIce,
		CreatedAt: s.CreatedAt,
	}
}

func mapToListResponse(rows []Slip) SlipListResponse {
	res := SlipListResponse{Slips: make([]SlipResponse, len(rows)), Count: len(rows)}
	for i, r := range rows {
		res.Slips[i] = mapToResponse(r)
		res.Total += r.Total
	}
	return res
}
