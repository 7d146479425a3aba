package domain

// Module is a feature module that can be enabled on the platform.
type Module struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"required,oneof=active inactive"`
	Icon        string `json:"icon,omitempty"`
}

func (m Module) EntityID() string { return m.ID }
