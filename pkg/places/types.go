package places

// BiasPoint weights a text search towards a circle around a location.
type BiasPoint struct {
	Latitude  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"lon" validate:"gte=-180,lte=180"`
	Radius    float64 `json:"radius,omitempty"` // meters, 0 means the client default
}

type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type Review struct {
	Text *LocalizedText `json:"text,omitempty"`
}

type AuthorAttribution struct {
	DisplayName string `json:"displayName"`
	Uri         string `json:"uri,omitempty"`
}

type Photo struct {
	Name               string              `json:"name"`
	AuthorAttributions []AuthorAttribution `json:"authorAttributions"`
}

// Details is the subset of a Place Details (new) response requested by the field mask.
type Details struct {
	DisplayName   *LocalizedText `json:"displayName,omitempty"`
	Reviews       []Review       `json:"reviews,omitempty"`
	Rating        *float64       `json:"rating,omitempty"`
	Delivery      *bool          `json:"delivery,omitempty"`
	GoogleMapsUri string         `json:"googleMapsUri"`
	Photos        []Photo        `json:"photos,omitempty"`
}

// Name returns the display name or an empty string.
func (d *Details) Name() string {
	if d.DisplayName == nil {
		return ""
	}
	return d.DisplayName.Text
}

// --- wire structs ---

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type searchTextRequest struct {
	TextQuery    string        `json:"textQuery"`
	PageSize     int           `json:"pageSize"`
	OpenNow      bool          `json:"openNow"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
}

type searchTextResponse struct {
	Places []struct {
		Id string `json:"id"`
	} `json:"places"`
}

type photoMediaResponse struct {
	Name     string `json:"name"`
	PhotoUri string `json:"photoUri"`
}
