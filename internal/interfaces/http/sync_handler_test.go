package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Marketsync-api/internal/domain"
	apphttp "github.com/jhoicas/Marketsync-api/internal/interfaces/http"
)

// fakeEnqueuer simula el runner: primera llamada encola, las siguientes
// devuelven conflicto con el mismo job.
type fakeEnqueuer struct {
	jobID    string
	inFlight bool
}

func (f *fakeEnqueuer) Enqueue(backendID string) (string, error) {
	if f.inFlight {
		return f.jobID, domain.ErrConflict
	}
	f.inFlight = true
	return f.jobID, nil
}

func buildSyncApp(runner apphttp.ExportEnqueuer) *fiber.App {
	app := fiber.New()
	h := apphttp.NewSyncHandler(runner)
	app.Post("/api/backends/:id/export", h.Export)
	return app
}

func TestSyncHandler_EncolaExportacion(t *testing.T) {
	app := buildSyncApp(&fakeEnqueuer{jobID: "job-1"})

	req := httptest.NewRequest(http.MethodPost, "/api/backends/backend-1/export", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "queued", body["status"])
	assert.Equal(t, "job-1", body["job_id"])
	assert.Equal(t, "backend-1", body["backend_id"])
}

func TestSyncHandler_ExportacionYaEnVuelo(t *testing.T) {
	runner := &fakeEnqueuer{jobID: "job-1", inFlight: true}
	app := buildSyncApp(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/backends/backend-1/export", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode,
		"el duplicado no es un error: se informa el trabajo en vuelo")

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "already_running", body["status"])
	assert.Equal(t, "job-1", body["job_id"])
}
