package cast

import "time"

type CreateCastRequest struct {
	Name string `json:"name" binding:"required"`
}

type CastResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

func mapToResponse(c Cast) CastResponse {
	resp := CastResponse{
		ID:   c.ID.String(),
		Name: c.Name,
	}
	if !c.CreatedAt.IsZero() {
		resp.CreatedAt = c.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(rows []Cast) []CastResponse {
	res := make([]CastResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
