package collector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gr-butler/agrokit/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upload = `{"id_agrokit":"KIT123","humedad_tierra":24,"temp_aire":24.50,"humedad_aire":60.0,` +
	`"temp_suelo":null,"agua":1,"luz":50,"presion":1012.30,"gps":{"lat":51.563667,"lon":-0.704000},` +
	`"bateria":77.8,"fechaHora":"2025-08-18 10:00:30"}`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPostAndRead(t *testing.T) {
	h := NewRouter(openTestStore(t))

	rec := do(t, h, http.MethodPost, "/api/sensores", upload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"id":1}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/sensores/KIT123", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	r := got[0]
	assert.Equal(t, "KIT123", r.DeviceID)
	assert.Equal(t, "2025-08-18 10:00:30", r.Timestamp)
	require.NotNil(t, r.SoilMoisture)
	assert.Equal(t, 24.0, *r.SoilMoisture)
	require.NotNil(t, r.Pressure)
	assert.InDelta(t, 1012.3, *r.Pressure, 1e-9)
	assert.Nil(t, r.SoilTemperature, "null stays null")
	require.NotNil(t, r.Water)
	assert.Equal(t, int64(1), *r.Water)

	rec = do(t, h, http.MethodGet, "/api/agrokits", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id_agrokit":"KIT123","name":"KIT123"}]`, rec.Body.String())
}

func TestMissingDeviceID(t *testing.T) {
	h := NewRouter(openTestStore(t))
	rec := do(t, h, http.MethodPost, "/api/sensores", `{"humedad_tierra":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/sensores", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/agrokits", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUnknownKitIsEmpty(t *testing.T) {
	h := NewRouter(openTestStore(t))
	rec := do(t, h, http.MethodGet, "/api/sensores/NOPE", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLatestNewestFirstAndCapped(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2025, 8, 18, 10, 0, 0, 0, time.UTC)
	for i := 0; i < LatestLimit+5; i++ {
		_, err := s.Insert(Submission{
			DeviceID:  "KIT123",
			Timestamp: base.Add(time.Duration(i) * 30 * time.Second).Format(data.TimestampLayout),
		})
		require.NoError(t, err)
	}
	_, err := s.Insert(Submission{DeviceID: "OTHER", Timestamp: base.Format(data.TimestampLayout)})
	require.NoError(t, err)

	got, err := s.Latest("KIT123", LatestLimit)
	require.NoError(t, err)
	require.Len(t, got, LatestLimit)
	assert.Equal(t, base.Add(104*30*time.Second).Format(data.TimestampLayout), got[0].Timestamp)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Timestamp >= got[i].Timestamp)
	}

	kits, err := s.Kits()
	require.NoError(t, err)
	assert.Equal(t, []Kit{{DeviceID: "KIT123", Name: "KIT123"}, {DeviceID: "OTHER", Name: "OTHER"}}, kits)
}

func TestInsertWithoutTimestamp(t *testing.T) {
	s := openTestStore(t)
	s.now = func() time.Time { return time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC) }
	_, err := s.Insert(Submission{DeviceID: "KIT123"})
	require.NoError(t, err)

	got, err := s.Latest("KIT123", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-08-18 12:00:00", got[0].Timestamp)
}

func TestMetricsServed(t *testing.T) {
	h := NewRouter(openTestStore(t))
	do(t, h, http.MethodPost, "/api/sensores", upload)
	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "collector_readings")
}
