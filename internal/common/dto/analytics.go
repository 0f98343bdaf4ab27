package dto

// MonthlyRevenue is one month's summed revenue, labeled with the short name
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// ClientStatusCount is the number of clients in one workflow status
type ClientStatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// AdminWorkload is the number of clients assigned to one admin
type AdminWorkload struct {
	Name    string `json:"name"`
	Clients int64  `json:"clients"`
}

// AnalyticsResponse is the dashboard aggregate
type AnalyticsResponse struct {
	TotalClients     int64               `json:"total_clients"`
	TotalAdmins      int64               `json:"total_admins"`
	PendingDocuments int64               `json:"pending_documents"`
	PendingPayments  int64               `json:"pending_payments"`
	CompletedFilings int64               `json:"completed_filings"`
	TotalRevenue     float64             `json:"total_revenue"`
	MonthlyRevenue   []MonthlyRevenue    `json:"monthly_revenue"`
	ClientsByStatus  []ClientStatusCount `json:"clients_by_status"`
	AdminWorkload    []AdminWorkload     `json:"admin_workload"`
}
