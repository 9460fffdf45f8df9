package domain

// Origin records which source a catalog came from.
type Origin string

const (
	OriginRemote  Origin = "remote"
	OriginCache   Origin = "cache"
	OriginBundled Origin = "bundled"
	OriginNone    Origin = "none"
)

// Catalog is the result of loading tours and host settings.
type Catalog struct {
	Tours    []TourDefinition `json:"tours"`
	Colors   *ThemeColors     `json:"colors,omitempty"`
	Features *Features        `json:"features,omitempty"`
	User     string           `json:"user,omitempty"`
	Origin   Origin           `json:"origin"`
}

// Find returns the tour with the given ID or nil.
func (c *Catalog) Find(id string) *TourDefinition {
	for i := range c.Tours {
		if c.Tours[i].ID == id {
			return &c.Tours[i]
		}
	}
	return nil
}
