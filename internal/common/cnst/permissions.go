package cnst

// Permission represents a named capability an admin may hold
type Permission string

const (
	// PermAddEditPayment allows creating, updating and deleting payments
	PermAddEditPayment Permission = "add_edit_payment"
	// PermAddEditClient allows creating, updating and deleting clients
	PermAddEditClient Permission = "add_edit_client"
	// PermRequestDocuments allows requesting documents from clients
	PermRequestDocuments Permission = "request_documents"
	// PermAssignClients allows assigning clients to admins
	PermAssignClients Permission = "assign_clients"
	// PermViewAnalytics allows viewing the analytics dashboard
	PermViewAnalytics Permission = "view_analytics"
	// PermApproveCostEstimate allows approving cost estimates
	PermApproveCostEstimate Permission = "approve_cost_estimate"
	// PermUpdateWorkflow allows updating a client's workflow status
	PermUpdateWorkflow Permission = "update_workflow"
)

// AllPermissions is the full capability set granted to superadmins
var AllPermissions = []Permission{
	PermAddEditPayment,
	PermAddEditClient,
	PermRequestDocuments,
	PermAssignClients,
	PermViewAnalytics,
	PermApproveCostEstimate,
	PermUpdateWorkflow,
}

// Valid reports whether p is part of the permission vocabulary
func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}
