// Package jobs implementa el runner en memoria que ejecuta las exportaciones
// en segundo plano, con un vuelo único por backend y reintentos programados
// según el clasificador de fallos.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appsync "github.com/jhoicas/Marketsync-api/internal/application/sync"
	"github.com/jhoicas/Marketsync-api/internal/domain"
	"github.com/jhoicas/Marketsync-api/pkg/logger"
)

// ExportFunc es la unidad de trabajo que el runner ejecuta: una exportación
// completa de un backend.
type ExportFunc func(ctx context.Context, backendID string) error

// Classifier decide si un fallo se reintenta. Lo implementa
// sync.RetryClassifier; los tests inyectan dobles con retrasos cortos.
type Classifier interface {
	Classify(err error) appsync.Classification
}

// job es una ejecución pendiente con su presupuesto de intentos consumido.
type job struct {
	id        string
	backendID string
	attempts  int
}

// Runner coordina los workers que drenan la cola de exportaciones. Garantiza
// un solo trabajo en vuelo por backend: encolar un backend ya en vuelo es un
// conflicto, no un duplicado silencioso.
type Runner struct {
	export      ExportFunc
	classifier  Classifier
	log         *logger.Logger
	workers     int
	maxAttempts int

	ch     chan job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]string // backendID -> jobID
}

// NewRunner construye el runner. workers y maxAttempts menores que 1 se
// normalizan a 1.
func NewRunner(export ExportFunc, classifier Classifier, workers, maxAttempts int, log *logger.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Runner{
		export:      export,
		classifier:  classifier,
		log:         log,
		workers:     workers,
		maxAttempts: maxAttempts,
		ch:          make(chan job, 64),
		inFlight:    make(map[string]string),
	}
}

// Start lanza los workers en segundo plano.
func (r *Runner) Start(parent context.Context) {
	r.ctx, r.cancel = context.WithCancel(parent)
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	r.log.Info().Int("workers", r.workers).Msg("runner de exportaciones iniciado")
}

// Stop cancela los workers y espera a que terminen el trabajo en curso.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Enqueue programa una exportación para el backend. Si ya hay una en vuelo
// retorna ErrConflict y el ID del trabajo existente.
func (r *Runner) Enqueue(backendID string) (string, error) {
	r.mu.Lock()
	if existing, ok := r.inFlight[backendID]; ok {
		r.mu.Unlock()
		return existing, domain.ErrConflict
	}
	id := uuid.New().String()
	r.inFlight[backendID] = id
	r.mu.Unlock()

	select {
	case r.ch <- job{id: id, backendID: backendID}:
		return id, nil
	case <-r.ctx.Done():
		r.clear(backendID)
		return "", r.ctx.Err()
	}
}

// InFlight indica si el backend tiene una exportación en vuelo.
func (r *Runner) InFlight(backendID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inFlight[backendID]
	return ok
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case j := <-r.ch:
			r.run(j)
		}
	}
}

// run ejecuta el trabajo y decide su destino: terminar, reprogramar con el
// retraso del clasificador, o agotar el presupuesto de intentos.
func (r *Runner) run(j job) {
	j.attempts++
	err := r.export(r.ctx, j.backendID)
	if err == nil {
		r.clear(j.backendID)
		r.log.Info().Str("job_id", j.id).Str("backend_id", j.backendID).
			Int("attempts", j.attempts).Msg("exportación completada")
		return
	}

	c := r.classifier.Classify(err)
	if !c.Retry {
		r.clear(j.backendID)
		r.log.Error().Err(err).Str("job_id", j.id).Str("backend_id", j.backendID).
			Msg("exportación fallida sin reintento")
		return
	}
	if c.ResetAttempts {
		j.attempts = 0
	}
	if j.attempts >= r.maxAttempts {
		r.clear(j.backendID)
		r.log.Error().Err(err).Str("job_id", j.id).Str("backend_id", j.backendID).
			Int("attempts", j.attempts).Msg("exportación agotó los intentos")
		return
	}

	r.log.Warn().Err(err).Str("job_id", j.id).Str("backend_id", j.backendID).
		Dur("delay", c.Delay).Int("attempts", j.attempts).
		Msg("exportación reprogramada")
	r.wg.Add(1)
	go r.requeueAfter(j, c.Delay)
}

// requeueAfter reencola el trabajo pasado el retraso, salvo que el runner se
// esté parando. El backend sigue marcado en vuelo durante la espera.
func (r *Runner) requeueAfter(j job, delay time.Duration) {
	defer r.wg.Done()
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-r.ctx.Done():
		r.clear(j.backendID)
	case <-timer.C:
		select {
		case r.ch <- j:
		case <-r.ctx.Done():
			r.clear(j.backendID)
		}
	}
}

func (r *Runner) clear(backendID string) {
	r.mu.Lock()
	delete(r.inFlight, backendID)
	r.mu.Unlock()
}
