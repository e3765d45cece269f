package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/daniil11ru/geotracker/cli/receiver/api/repository"
	"github.com/daniil11ru/geotracker/cli/receiver/domain"
	"github.com/daniil11ru/geotracker/cli/receiver/model"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// memorySource is a concurrency-safe in-memory location store.
type memorySource struct {
	mu        sync.Mutex
	records   []model.LocationRecord
	appendErr error
}

func (m *memorySource) Append(r *model.LocationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, *r)
	return nil
}

func (m *memorySource) ReadAll() []model.LocationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LocationRecord, len(m.records))
	copy(out, m.records)
	return out
}

func (m *memorySource) Last() (model.LocationRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) == 0 {
		return model.LocationRecord{}, false
	}
	return m.records[len(m.records)-1], true
}

func newTestEngine(t *testing.T, src *memorySource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)

	dir := t.TempDir()
	routesPath := filepath.Join(dir, "routes.json")
	stopsPath := filepath.Join(dir, "stops.csv")
	if err := os.WriteFile(routesPath, []byte(`[{"id":"m1","name":"Main line"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stopsPath, []byte("id,name,lat,lon,approximate\ns1,Center,41.01,28.97,1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	staticDir := filepath.Join(dir, "static")
	if err := os.MkdirAll(staticDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>map</html>"), 0644); err != nil {
		t.Fatal(err)
	}

	saveLocation := &domain.SaveLocation{Primary: src}
	businessData := repository.NewBusinessDataDefault(src)
	additionalData := repository.NewAdditionalDataDefault(routesPath, stopsPath)

	handler := NewHandler(saveLocation, businessData, additionalData, 20*time.Millisecond)
	return NewController(handler, staticDir).Engine()
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPostLocation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "full report is created",
			body:       `{"_type":"location","tid":"car1","lat":41.0082,"lon":28.9784,"tst":1700000000}`,
			wantStatus: http.StatusCreated,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "status message is ignored",
			body:       `{"_type":"status","tid":"car1"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ignored"}`,
		},
		{
			name:       "invalid json",
			body:       `{"lat":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"missing json"}`,
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"missing json"}`,
		},
		{
			name:       "bad latitude",
			body:       `{"tid":"car1","lat":"north","lon":28.9784}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad lat/lon"}`,
		},
		{
			name:       "missing coordinates",
			body:       `{"tid":"car1"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad lat/lon"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, &memorySource{})
			w := doRequest(engine, http.MethodPost, "/location", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestPostLocation_StorageFailure(t *testing.T) {
	src := &memorySource{appendErr: fmt.Errorf("disk is full")}
	engine := newTestEngine(t, src)

	w := doRequest(engine, http.MethodPost, "/location", `{"tid":"car1","lat":1,"lon":2}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"storage failure"}`, w.Body.String())
}

func TestGetVehicle_AfterIngestion(t *testing.T) {
	engine := newTestEngine(t, &memorySource{})

	w := doRequest(engine, http.MethodPost, "/location", `{"_type":"location","tid":"car1","lat":41.0082,"lon":28.9784,"tst":1700000000}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(engine, http.MethodGet, "/api/vehicles/car1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var vehicle map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicle))
	assert.Equal(t, "car1", vehicle["device_id"])
	assert.Equal(t, 41.0082, vehicle["latitude"])
	assert.Equal(t, 28.9784, vehicle["longitude"])
	assert.Equal(t, "2023-11-14T22:13:20Z", vehicle["timestamp_iso"])
}

func TestGetVehicle_NotFound(t *testing.T) {
	engine := newTestEngine(t, &memorySource{})

	w := doRequest(engine, http.MethodGet, "/api/vehicles/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestGetVehicles_LastWriteWinsAndSorted(t *testing.T) {
	engine := newTestEngine(t, &memorySource{})

	for _, body := range []string{
		`{"tid":"car2","lat":42.0,"lon":29.0}`,
		`{"tid":"car1","lat":41.1,"lon":28.1}`,
		`{"tid":"car1","lat":41.2,"lon":28.2}`,
	} {
		w := doRequest(engine, http.MethodPost, "/location", body)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(engine, http.MethodGet, "/api/vehicles", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var vehicles []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicles))
	if !assert.Len(t, vehicles, 2) {
		return
	}
	assert.Equal(t, "car1", vehicles[0]["device_id"])
	assert.Equal(t, 41.2, vehicles[0]["latitude"])
	assert.Equal(t, "car2", vehicles[1]["device_id"])
}

func TestGetVehicles_NullCoordinatesForCorruptRecord(t *testing.T) {
	src := &memorySource{records: []model.LocationRecord{
		{DeviceID: "car1", Latitude: "garbage", Longitude: "28.1"},
	}}
	engine := newTestEngine(t, src)

	w := doRequest(engine, http.MethodGet, "/api/vehicles", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var vehicles []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicles))
	if !assert.Len(t, vehicles, 1) {
		return
	}
	assert.Nil(t, vehicles[0]["latitude"])
	assert.Nil(t, vehicles[0]["longitude"])
}

func TestGetRecentLocations(t *testing.T) {
	engine := newTestEngine(t, &memorySource{})

	for i := 0; i < 5; i++ {
		body := fmt.Sprintf(`{"tid":"car%d","lat":1,"lon":2}`, i)
		doRequest(engine, http.MethodPost, "/location", body)
	}

	w := doRequest(engine, http.MethodGet, "/locations/recent?limit=2", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var records []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	if assert.Len(t, records, 2) {
		assert.Equal(t, "car3", records[0]["device_id"])
		assert.Equal(t, "car4", records[1]["device_id"])
	}

	w = doRequest(engine, http.MethodGet, "/locations/recent", "")
	var all []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 5)
}

func TestGetAllLocations(t *testing.T) {
	engine := newTestEngine(t, &memorySource{})

	doRequest(engine, http.MethodPost, "/location", `{"tid":"car1","lat":1,"lon":2}`)
	doRequest(engine, http.MethodPost, "/location", `{"tid":"car1","lat":3,"lon":4}`)

	w := doRequest(engine, http.MethodGet, "/api/locations/all", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var records []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 2)
}

func TestGetLatestLocation(t *testing.T) {
	engine := newTestEngine(t, &memorySource{})

	w := doRequest(engine, http.MethodGet, "/api/locations/latest", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String(), "an empty store yields an empty object")

	doRequest(engine, http.MethodPost, "/location", `{"tid":"car1","lat":1,"lon":2}`)
	doRequest(engine, http.MethodPost, "/location", `{"tid":"car2","lat":3,"lon":4}`)

	w = doRequest(engine, http.MethodGet, "/api/locations/latest", "")
	var record map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "car2", record["device_id"])
}

func TestGetRoutesAndStops(t *testing.T) {
	engine := newTestEngine(t, &memorySource{})

	w := doRequest(engine, http.MethodGet, "/api/routes", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var routes []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &routes))
	if assert.Len(t, routes, 1) {
		assert.Equal(t, "m1", routes[0]["id"])
	}

	w = doRequest(engine, http.MethodGet, "/api/stops", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var stops []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stops))
	if assert.Len(t, stops, 1) {
		assert.Equal(t, "s1", stops[0]["id"])
		assert.Equal(t, 41.01, stops[0]["lat"])
		assert.Equal(t, true, stops[0]["approximate"])
	}
}

func TestStaticFallback(t *testing.T) {
	engine := newTestEngine(t, &memorySource{})

	w := doRequest(engine, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "map")

	w = doRequest(engine, http.MethodGet, "/index.html", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(engine, http.MethodGet, "/missing.js", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(engine, http.MethodPost, "/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
