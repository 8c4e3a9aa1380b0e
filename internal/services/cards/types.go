package cards

// ImageURIs holds the image variants Scryfall renders for a card face
type ImageURIs struct {
	Small   string `json:"small,omitempty"`
	Normal  string `json:"normal,omitempty"`
	Large   string `json:"large,omitempty"`
	PNG     string `json:"png,omitempty"`
	ArtCrop string `json:"art_crop,omitempty"`
}

// CardFace is one face of a multi-faced card
type CardFace struct {
	Name       string     `json:"name"`
	TypeLine   string     `json:"type_line,omitempty"`
	OracleText string     `json:"oracle_text,omitempty"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

// Card is the subset of a Scryfall card object the tracker uses
type Card struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	TypeLine   string     `json:"type_line,omitempty"`
	OracleText string     `json:"oracle_text,omitempty"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
	CardFaces  []CardFace `json:"card_faces,omitempty"`
}

// SearchResult is one page of a card search
type SearchResult struct {
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	Data       []Card `json:"data"`
}

type autocompleteResponse struct {
	Data []string `json:"data"`
}

// apiError is the error object Scryfall returns with non-2xx responses
type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// Status is the outcome of resolving a card name
type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	StatusIneligible
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusIneligible:
		return "ineligible"
	default:
		return "not_found"
	}
}

// Result is the tagged outcome of Resolve. Card is set for Found and Ineligible.
type Result struct {
	Status Status
	Card   *Card
}
