package dto

// ErrorResponse HTTP error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LocationDTO wire form of a composite location key.
type LocationDTO struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}
