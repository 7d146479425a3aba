package domain

// Tenant is an organisation hosted on the platform.
type Tenant struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Domain      string `json:"domain" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"required,oneof=active inactive"`
	CreatedAt   string `json:"createdAt,omitempty"` // YYYY-MM-DD
}

func (t Tenant) EntityID() string { return t.ID }

// TenantMapping binds a tenant to a provisioned resource. TenantName is a
// copy of the tenant's name taken when the mapping was saved.
type TenantMapping struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenantId" validate:"required"`
	TenantName   string `json:"tenantName"`
	ResourceType string `json:"resourceType" validate:"required"`
	ResourceID   string `json:"resourceId" validate:"required"`
	ResourceName string `json:"resourceName"`
}

func (m TenantMapping) EntityID() string { return m.ID }

// Statuses shared by tenants, locations and modules.
var RecordStatuses = []string{StatusActive, StatusInactive}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ResourceTypes lists the kinds of resource a tenant can be mapped to.
var ResourceTypes = []string{"Database", "Storage", "Compute", "Network"}
