package domain

// Ticket is a support request raised on behalf of a tenant.
type Ticket struct {
	ID          string `json:"id"`
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"required,oneof=open in-progress resolved closed"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high urgent"`
	TenantID    string `json:"tenantId"`
	TenantName  string `json:"tenantName"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func (t Ticket) EntityID() string { return t.ID }

var (
	TicketStatuses   = []string{"open", "in-progress", "resolved", "closed"}
	TicketPriorities = []string{"low", "medium", "high", "urgent"}
)
