package dto

// Límites de paginación de los listados.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// PageRequest paginación para listados (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica DefaultListLimit si Limit no es positivo, lo acota a MaxListLimit y lleva
// Offset negativo a cero.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultListLimit
	case p.Limit > MaxListLimit:
		p.Limit = MaxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP: code es el tipo de error de dominio (NOT_FOUND, VALIDATION...).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
