package dto

// TaxForm is one tax-form record owned by the sibling client backend
type TaxForm struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	TaxYear     int    `json:"tax_year"`
	ClientEmail string `json:"client_email,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TaxFormListResponse mirrors the sibling backend's list shape
type TaxFormListResponse struct {
	Forms  []TaxForm `json:"forms"`
	Total  int64     `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}
