package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultPage: la página se normaliza con valores por defecto y el límite
// nunca supera el tope del panel.
func TestDefaultPage(t *testing.T) {
	casos := []struct {
		nombre     string
		in, quiero PageRequest
	}{
		{"vacia", PageRequest{}, PageRequest{Limit: 20, Offset: 0}},
		{"negativa", PageRequest{Limit: -5, Offset: -1}, PageRequest{Limit: 20, Offset: 0}},
		{"dentro del rango", PageRequest{Limit: 50, Offset: 200}, PageRequest{Limit: 50, Offset: 200}},
		{"sobre el tope", PageRequest{Limit: 5000}, PageRequest{Limit: maxPageLimit, Offset: 0}},
	}
	for _, c := range casos {
		c.in.DefaultPage()
		assert.Equal(t, c.quiero, c.in, c.nombre)
	}
}
