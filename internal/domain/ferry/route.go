package ferry

import "ferryclock/internal/domain/shared"

// Route describes one supported ferry crossing. West and East are the exact
// upstream terminal names; WestName resolves to the terminal whose departures
// define lane identity for the day.
type Route struct {
	RouteID         int
	Description     string
	WestName        string
	EastName        string
	CrossingMinutes int
}

// Catalog holds the closed set of supported routes. It is initialised at
// start-up and never mutated, so reads need no locking.
type Catalog struct {
	routes []Route
	byID   map[int]Route
}

// NewCatalog builds a catalog from an ordered route list.
func NewCatalog(routes []Route) *Catalog {
	byID := make(map[int]Route, len(routes))
	for _, r := range routes {
		byID[r.RouteID] = r
	}
	return &Catalog{routes: routes, byID: byID}
}

// DefaultCatalog returns the production route whitelist.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Route{
		{RouteID: 5, Description: "Seattle / Bainbridge Island", WestName: "Bainbridge Island", EastName: "Seattle", CrossingMinutes: 35},
		{RouteID: 3, Description: "Seattle / Bremerton", WestName: "Bremerton", EastName: "Seattle", CrossingMinutes: 60},
		{RouteID: 6, Description: "Edmonds / Kingston", WestName: "Kingston", EastName: "Edmonds", CrossingMinutes: 30},
		{RouteID: 7, Description: "Mukilteo / Clinton", WestName: "Clinton", EastName: "Mukilteo", CrossingMinutes: 20},
		{RouteID: 13, Description: "Fauntleroy / Southworth", WestName: "Southworth", EastName: "Fauntleroy", CrossingMinutes: 40},
		{RouteID: 8, Description: "Port Townsend / Coupeville", WestName: "Port Townsend", EastName: "Coupeville", CrossingMinutes: 35},
	})
}

// ListRoutes returns the full ordered route list.
func (c *Catalog) ListRoutes() []Route {
	out := make([]Route, len(c.routes))
	copy(out, c.routes)
	return out
}

// GetRoute returns the route with the given ID, or UnknownRouteError.
func (c *Catalog) GetRoute(id int) (Route, error) {
	r, ok := c.byID[id]
	if !ok {
		return Route{}, shared.NewUnknownRouteError(id)
	}
	return r, nil
}
