package dto

// maxPageLimit acota el tamaño de página de los listados del panel; el
// histórico de un listing puede tener miles de entradas.
const maxPageLimit = 100

// PageRequest paginación para los listados del panel (productos, listings,
// histórico de precios).
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage normaliza la página: valores por defecto si faltan y tope
// superior en maxPageLimit.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
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

// ErrorResponse cuerpo de error HTTP con código estable para el cliente.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
