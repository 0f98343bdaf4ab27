package dto

// CreateEstimateRequest represents a request to issue a cost estimate
type CreateEstimateRequest struct {
	ServiceCost float64 `json:"service_cost" binding:"required,gte=0"`
	Discount    float64 `json:"discount" binding:"omitempty,gte=0"`
	GstHst      float64 `json:"gst_hst" binding:"omitempty,gte=0"`
	Total       float64 `json:"total" binding:"required,gte=0"`
	Status      string  `json:"status" binding:"omitempty,oneof=draft sent awaiting_payment paid"`
}

// UpdateEstimateRequest represents a partial cost estimate update
type UpdateEstimateRequest struct {
	ServiceCost *float64 `json:"service_cost,omitempty" binding:"omitempty,gte=0"`
	Discount    *float64 `json:"discount,omitempty" binding:"omitempty,gte=0"`
	GstHst      *float64 `json:"gst_hst,omitempty" binding:"omitempty,gte=0"`
	Total       *float64 `json:"total,omitempty" binding:"omitempty,gte=0"`
	Status      *string  `json:"status,omitempty" binding:"omitempty,oneof=draft sent awaiting_payment paid"`
}
