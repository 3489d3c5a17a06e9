package model

// Favorite is a city bookmarked by exactly one user.  The pair
// (UserID, CityName) is unique in the `favorites` table.
type Favorite struct {
	ID       uint64  `json:"id"`        // favorites.id
	UserID   uint64  `json:"-"`         // favorites.user_id
	CityName string  `json:"city_name"` // favorites.city_name
	Lat      float64 `json:"lat"`       // favorites.lat
	Lon      float64 `json:"lon"`       // favorites.lon
}
