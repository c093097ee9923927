package sync

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/jhoicas/Marketsync-api/internal/domain"
)

// Mensajes con los que el almacenamiento señala un conflicto de concurrencia
// (transacción abortada o fallo de serialización). Se comparan por subcadena
// porque llegan envueltos por las capas intermedias.
var storageConflictMarkers = []string{
	"current transaction is aborted",
	"could not serialize access due to concurrent update",
	"SQLSTATE 40001",
	"SQLSTATE 40P01",
}

// Classification es la decisión del clasificador sobre un fallo: reintentar
// con retraso (y opcionalmente reiniciar el contador de intentos) o fallar
// definitivamente. La ejecución del reintento es responsabilidad del runner de
// trabajos, no de este componente.
type Classification struct {
	Retry         bool
	Delay         time.Duration
	ResetAttempts bool
}

// RetryClassifier inspecciona fallos del transporte o del almacenamiento y
// decide si la unidad de trabajo se reprograma. El retraso es aleatorio para
// evitar que muchos trabajos en conflicto se reenvíen a la vez.
type RetryClassifier struct {
	rng *rand.Rand
}

// NewRetryClassifier construye el clasificador con su propia fuente aleatoria.
func NewRetryClassifier() *RetryClassifier {
	return &RetryClassifier{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Classify aplica la taxonomía de errores:
//   - conflicto de concurrencia en el almacenamiento: reintento en [60,300] s
//     con reinicio del contador (es contención nueva, no consumo de presupuesto);
//   - resultado vacío de importación/exportación: reintento en [90,600] s
//     (hueco transitorio de datos aguas arriba, backoff más largo);
//   - cualquier otro error: fallo permanente, se propaga al runner.
func (c *RetryClassifier) Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}
	if isStorageConflict(err) {
		return Classification{
			Retry:         true,
			Delay:         c.randomDelay(60, 300),
			ResetAttempts: true,
		}
	}
	if errors.Is(err, domain.ErrEmptyResult) {
		return Classification{
			Retry: true,
			Delay: c.randomDelay(90, 600),
		}
	}
	return Classification{}
}

func (c *RetryClassifier) randomDelay(minSec, maxSec int) time.Duration {
	return time.Duration(minSec+c.rng.Intn(maxSec-minSec+1)) * time.Second
}

func isStorageConflict(err error) bool {
	msg := err.Error()
	for _, marker := range storageConflictMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
