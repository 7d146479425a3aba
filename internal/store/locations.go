package store

import (
	"go.uber.org/zap"

	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/pkg/domain"
)

// Locations is the country > state > city > area hierarchy. Each child caches
// its parent's name when the parent is chosen.
type Locations struct {
	Countries *Collection[domain.Country]
	States    *Collection[domain.State]
	Cities    *Collection[domain.City]
	Areas     *Collection[domain.Area]
}

func NewLocations(api Doer, kv storage.KV, log *zap.Logger, local map[string]bool) *Locations {
	l := &Locations{}
	l.Countries = NewCollection(Resource{
		Name: "countries", Path: "/countries", StorageKey: "country-storage", Local: local["countries"],
	}, api, kv, log, Hooks[domain.Country]{})

	l.States = NewCollection(Resource{
		Name: "states", Path: "/states", StorageKey: "state-storage", Local: local["states"],
	}, api, kv, log, Hooks[domain.State]{
		Prepare: func(s domain.State) (domain.State, error) {
			name, err := parentName(l.Countries, s.CountryID, "country", func(c domain.Country) string { return c.Name })
			s.CountryName = name
			return s, err
		},
		PreparePatch: func(p domain.Patch) (domain.Patch, error) {
			return withParentName(p, "countryId", "countryName", "country", l.Countries, func(c domain.Country) string { return c.Name })
		},
	})

	l.Cities = NewCollection(Resource{
		Name: "cities", Path: "/cities", StorageKey: "city-storage", Local: local["cities"],
	}, api, kv, log, Hooks[domain.City]{
		Prepare: func(c domain.City) (domain.City, error) {
			name, err := parentName(l.States, c.StateID, "state", func(s domain.State) string { return s.Name })
			c.StateName = name
			return c, err
		},
		PreparePatch: func(p domain.Patch) (domain.Patch, error) {
			return withParentName(p, "stateId", "stateName", "state", l.States, func(s domain.State) string { return s.Name })
		},
	})

	l.Areas = NewCollection(Resource{
		Name: "areas", Path: "/areas", StorageKey: "area-storage", Local: local["areas"],
	}, api, kv, log, Hooks[domain.Area]{
		Prepare: func(a domain.Area) (domain.Area, error) {
			name, err := parentName(l.Cities, a.CityID, "city", func(c domain.City) string { return c.Name })
			a.CityName = name
			return a, err
		},
		PreparePatch: func(p domain.Patch) (domain.Patch, error) {
			return withParentName(p, "cityId", "cityName", "city", l.Cities, func(c domain.City) string { return c.Name })
		},
	})
	return l
}
