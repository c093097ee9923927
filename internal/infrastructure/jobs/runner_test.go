package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/jhoicas/Marketsync-api/internal/application/sync"
	"github.com/jhoicas/Marketsync-api/internal/domain"
	"github.com/jhoicas/Marketsync-api/pkg/logger"
)

// fakeClassifier devuelve una clasificación fija con retrasos cortos para que
// los tests no esperen los rangos reales.
type fakeClassifier struct {
	c appsync.Classification
}

func (f fakeClassifier) Classify(err error) appsync.Classification {
	if err == nil {
		return appsync.Classification{}
	}
	return f.c
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func esperar(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestRunner_EjecutaYLiberaElVuelo(t *testing.T) {
	var calls atomic.Int32
	export := func(ctx context.Context, backendID string) error {
		calls.Add(1)
		return nil
	}
	r := NewRunner(export, fakeClassifier{}, 2, 3, testLogger())
	r.Start(context.Background())
	defer r.Stop()

	id, err := r.Enqueue("backend-1")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	esperar(t, func() bool { return calls.Load() == 1 }, "la exportación no se ejecutó")
	esperar(t, func() bool { return !r.InFlight("backend-1") }, "el vuelo no se liberó")

	// Tras terminar, el mismo backend se puede volver a encolar
	_, err = r.Enqueue("backend-1")
	require.NoError(t, err)
}

func TestRunner_VueloUnicoPorBackend(t *testing.T) {
	bloqueo := make(chan struct{})
	export := func(ctx context.Context, backendID string) error {
		<-bloqueo
		return nil
	}
	r := NewRunner(export, fakeClassifier{}, 1, 3, testLogger())
	r.Start(context.Background())
	defer r.Stop()

	primero, err := r.Enqueue("backend-1")
	require.NoError(t, err)

	segundo, err := r.Enqueue("backend-1")
	assert.ErrorIs(t, err, domain.ErrConflict, "el segundo encolado del mismo backend debe ser conflicto")
	assert.Equal(t, primero, segundo, "el conflicto retorna el ID del trabajo en vuelo")

	// Otro backend no se ve afectado
	_, err = r.Enqueue("backend-2")
	require.NoError(t, err)

	close(bloqueo)
}

func TestRunner_ReintentoHastaExito(t *testing.T) {
	var calls atomic.Int32
	export := func(ctx context.Context, backendID string) error {
		if calls.Add(1) < 3 {
			return errors.New("fallo transitorio")
		}
		return nil
	}
	clasificador := fakeClassifier{c: appsync.Classification{Retry: true, Delay: time.Millisecond}}
	r := NewRunner(export, clasificador, 1, 5, testLogger())
	r.Start(context.Background())
	defer r.Stop()

	_, err := r.Enqueue("backend-1")
	require.NoError(t, err)

	esperar(t, func() bool { return calls.Load() == 3 }, "no se reintentó hasta el éxito")
	esperar(t, func() bool { return !r.InFlight("backend-1") }, "el vuelo no se liberó tras el éxito")
}

func TestRunner_AgotaPresupuestoDeIntentos(t *testing.T) {
	var calls atomic.Int32
	export := func(ctx context.Context, backendID string) error {
		calls.Add(1)
		return errors.New("siempre falla")
	}
	clasificador := fakeClassifier{c: appsync.Classification{Retry: true, Delay: time.Millisecond}}
	r := NewRunner(export, clasificador, 1, 3, testLogger())
	r.Start(context.Background())
	defer r.Stop()

	_, err := r.Enqueue("backend-1")
	require.NoError(t, err)

	esperar(t, func() bool { return !r.InFlight("backend-1") }, "el vuelo no se liberó al agotar intentos")
	assert.EqualValues(t, 3, calls.Load(), "debe ejecutarse exactamente maxAttempts veces")
}

func TestRunner_FalloPermanenteNoReintenta(t *testing.T) {
	var calls atomic.Int32
	export := func(ctx context.Context, backendID string) error {
		calls.Add(1)
		return errors.New("fallo permanente")
	}
	r := NewRunner(export, fakeClassifier{}, 1, 5, testLogger())
	r.Start(context.Background())
	defer r.Stop()

	_, err := r.Enqueue("backend-1")
	require.NoError(t, err)

	esperar(t, func() bool { return !r.InFlight("backend-1") }, "el vuelo no se liberó")
	assert.EqualValues(t, 1, calls.Load())
}

func TestRunner_ReinicioDeContadorNoAgotaPresupuesto(t *testing.T) {
	var calls atomic.Int32
	export := func(ctx context.Context, backendID string) error {
		if calls.Add(1) < 5 {
			return errors.New("could not serialize access due to concurrent update")
		}
		return nil
	}
	// ResetAttempts: el conflicto de concurrencia no consume presupuesto
	clasificador := fakeClassifier{c: appsync.Classification{Retry: true, Delay: time.Millisecond, ResetAttempts: true}}
	r := NewRunner(export, clasificador, 1, 2, testLogger())
	r.Start(context.Background())
	defer r.Stop()

	_, err := r.Enqueue("backend-1")
	require.NoError(t, err)

	esperar(t, func() bool { return calls.Load() == 5 }, "el reinicio del contador debe permitir más de maxAttempts ejecuciones")
}
