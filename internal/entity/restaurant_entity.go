package entity

import "fmt"

type DeliveryStatus string

const (
	DeliveryAvailable    DeliveryStatus = "Available"
	DeliveryNotAvailable DeliveryStatus = "Not Available"
	DeliveryUnknown      DeliveryStatus = "Unknown"
)

// ParseDeliveryStatus validates a stored delivery value.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch DeliveryStatus(s) {
	case DeliveryAvailable, DeliveryNotAvailable, DeliveryUnknown:
		return DeliveryStatus(s), nil
	}
	return "", fmt.Errorf("invalid delivery status %q", s)
}

// DeliveryFromFlag maps the provider's optional delivery flag to a status.
func DeliveryFromFlag(flag *bool) DeliveryStatus {
	switch {
	case flag == nil:
		return DeliveryUnknown
	case *flag:
		return DeliveryAvailable
	default:
		return DeliveryNotAvailable
	}
}

// MissingReviews is stored in place of reviews when a place has none.
const MissingReviews = "None"

type Restaurant struct {
	PlaceId  string         `json:"place_id"`
	Name     string         `json:"name"`
	Reviews  []string       `json:"reviews"`
	Rating   float64        `json:"rating"`
	Delivery DeliveryStatus `json:"delivery"`
	MapsUri  string         `json:"maps_uri"`
	PhotoUri string         `json:"photo"`
}
