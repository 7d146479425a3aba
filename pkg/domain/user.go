package domain

// SupportUser is a member of the support team as returned by the backend.
type SupportUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Status    string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (u SupportUser) EntityID() string { return u.ID }

// FullName joins first and last name.
func (u SupportUser) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

const (
	UserActive   = "ACTIVE"
	UserInactive = "INACTIVE"
)

var UserStatuses = []string{UserActive, UserInactive}

// UserProfile is the account-creation payload. It is also what the users
// endpoint accepts for an update, where an empty password keeps the old one.
type UserProfile struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password  string `json:"password,omitempty" validate:"required,min=6"`
	Status    string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}
