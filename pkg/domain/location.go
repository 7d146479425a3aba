package domain

// Country is the root of the location hierarchy.
type Country struct {
	ID     string `json:"id"`
	Name   string `json:"name" validate:"required"`
	Code   string `json:"code" validate:"required,max=3"`
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (c Country) EntityID() string { return c.ID }

// State belongs to a country. CountryName is denormalized on save and is not
// refreshed when the country is renamed.
type State struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	CountryID   string `json:"countryId" validate:"required"`
	CountryName string `json:"countryName"`
	Status      string `json:"status" validate:"required,oneof=active inactive"`
}

func (s State) EntityID() string { return s.ID }

// City belongs to a state; StateName is denormalized like State.CountryName.
type City struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required"`
	StateID   string `json:"stateId" validate:"required"`
	StateName string `json:"stateName"`
	Status    string `json:"status" validate:"required,oneof=active inactive"`
}

func (c City) EntityID() string { return c.ID }

// Area belongs to a city; CityName is denormalized like State.CountryName.
type Area struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	CityID   string `json:"cityId" validate:"required"`
	CityName string `json:"cityName"`
	Pincode  string `json:"pincode" validate:"omitempty,numeric"`
	Status   string `json:"status" validate:"required,oneof=active inactive"`
}

func (a Area) EntityID() string { return a.ID }
