package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrBomRatio indica una línea de BoM con ratio cero o negativo: es un error
	// de configuración del catálogo, nunca se interpreta como stock ilimitado.
	ErrBomRatio = errors.New("línea de BoM con ratio cero o negativo")

	// ErrEmptyResult indica que una importación/exportación terminó sin excepción
	// pero con resultado vacío; el clasificador de reintentos lo trata como
	// transitorio con backoff largo.
	ErrEmptyResult = errors.New("la operación devolvió un resultado vacío")

	// ErrEmptyArguments indica una llamada al adaptador del marketplace sin
	// parámetros; se registra con el nombre del método y se propaga.
	ErrEmptyArguments = errors.New("llamada al adaptador sin argumentos")
)
