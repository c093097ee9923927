package sync_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Marketsync-api/internal/domain"
	appsync "github.com/jhoicas/Marketsync-api/internal/application/sync"
)

// TestClassify_ConflictoDeConcurrencia: los mensajes de serialización del
// almacenamiento se reprograman en [60,300] s con reinicio del contador.
func TestClassify_ConflictoDeConcurrencia(t *testing.T) {
	c := appsync.NewRetryClassifier()

	mensajes := []error{
		errors.New("ERROR: current transaction is aborted, commands ignored until end of transaction block"),
		errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)"),
		fmt.Errorf("enviar lote: %w", errors.New("deadlock detected (SQLSTATE 40P01)")),
	}
	for _, err := range mensajes {
		cl := c.Classify(err)
		assert.True(t, cl.Retry, "debe reintentarse: %v", err)
		assert.True(t, cl.ResetAttempts, "la contención reinicia el contador: %v", err)
		assert.GreaterOrEqual(t, cl.Delay, 60*time.Second)
		assert.LessOrEqual(t, cl.Delay, 300*time.Second)
	}
}

// TestClassify_ResultadoVacio: un resultado vacío se reprograma en [90,600] s
// sin reiniciar el contador.
func TestClassify_ResultadoVacio(t *testing.T) {
	c := appsync.NewRetryClassifier()

	err := fmt.Errorf("refrescar listing SKU-1: %w", domain.ErrEmptyResult)
	cl := c.Classify(err)

	assert.True(t, cl.Retry)
	assert.False(t, cl.ResetAttempts)
	assert.GreaterOrEqual(t, cl.Delay, 90*time.Second)
	assert.LessOrEqual(t, cl.Delay, 600*time.Second)
}

// TestClassify_RetrasoAleatorio: el retraso varía entre clasificaciones para
// evitar reenvíos en manada; con muchas muestras deben aparecer valores
// distintos y todos dentro del rango.
func TestClassify_RetrasoAleatorio(t *testing.T) {
	c := appsync.NewRetryClassifier()
	err := errors.New("could not serialize access due to concurrent update")

	vistos := map[time.Duration]bool{}
	for i := 0; i < 200; i++ {
		cl := c.Classify(err)
		assert.GreaterOrEqual(t, cl.Delay, 60*time.Second)
		assert.LessOrEqual(t, cl.Delay, 300*time.Second)
		vistos[cl.Delay] = true
	}
	assert.Greater(t, len(vistos), 1, "el retraso debe ser aleatorio")
}

// TestClassify_FalloPermanente: cualquier otro error no se reintenta en esta
// capa.
func TestClassify_FalloPermanente(t *testing.T) {
	c := appsync.NewRetryClassifier()

	for _, err := range []error{
		errors.New("connection refused"),
		domain.ErrNotFound,
		fmt.Errorf("%w: get_my_price_product", domain.ErrEmptyArguments),
	} {
		cl := c.Classify(err)
		assert.False(t, cl.Retry, "no debe reintentarse: %v", err)
	}
}

// TestClassify_SinError: nil no produce reintento.
func TestClassify_SinError(t *testing.T) {
	c := appsync.NewRetryClassifier()
	assert.False(t, c.Classify(nil).Retry)
}

// TestChunk: los lotes preservan el orden y acotan el tamaño.
func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	groups := appsync.Chunk(items, 3)

	assert.Len(t, groups, 3)
	assert.Equal(t, []int{1, 2, 3}, groups[0])
	assert.Equal(t, []int{4, 5, 6}, groups[1])
	assert.Equal(t, []int{7}, groups[2])

	assert.Nil(t, appsync.Chunk([]int{}, 3), "sin elementos no hay lotes")
	assert.Len(t, appsync.Chunk(items, 0), 1, "tamaño <= 0 produce un único lote")
}
