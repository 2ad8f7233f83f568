package get_active_session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/service/sessions"
	"github.com/m04kA/SMC-ParkingService/internal/service/sessions/models"
)

type stubService struct {
	gotPlate string
	resp     *models.SessionResponse
	err      error
}

func (s *stubService) GetActiveByPlate(_ context.Context, plate string) (*models.SessionResponse, error) {
	s.gotPlate = plate
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sessions/active/{licensePlate}", h.Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandle_OK(t *testing.T) {
	svc := &stubService{resp: &models.SessionResponse{
		ID: 3, LicensePlate: "ABC-123", ParkingSpot: "A1",
		EntryTime: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Status: "parked",
	}}

	w := serve(NewHandler(svc, nopLogger{}), "/api/v1/sessions/active/ABC-123")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ABC-123", svc.gotPlate)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "parked", body["status"])
	assert.Nil(t, body["exitTime"])
	assert.Nil(t, body["fee"])
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: sessions.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid", err: sessions.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", err: errors.New("db"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(NewHandler(&stubService{err: tt.err}, nopLogger{}), "/api/v1/sessions/active/XYZ")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
