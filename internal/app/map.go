package app

// Marker is one record pin on the map.
type Marker struct {
	ID          string
	Lat         float64
	Lng         float64
	Highlighted bool
}

// MapWidget is the rendering port the controller drives. Click and
// locate-me coordinates flow the other way, through Controller.HandleMapClick.
type MapWidget interface {
	SetMarkers(markers []Marker)
	FlyTo(lat, lng float64, zoom int)
}
