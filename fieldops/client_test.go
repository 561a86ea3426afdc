package fieldops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agrisight/agrikit/api"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	apiClient, err := api.NewClient(api.Config{
		BaseURL:    srv.URL,
		Service:    "field-ops",
		RetryDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return NewClient(apiClient), srv
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func TestListFields(t *testing.T) {
	var gotPath, gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeData(w, []Field{
			{ID: "f-1", Name: "North 40", Crop: "barley", AreaHectares: 16.2},
			{ID: "f-2", Name: "River Bend", Crop: "maize", AreaHectares: 8.7},
		})
	}))

	fields, err := c.ListFields(context.Background(), "barley")
	if err != nil {
		t.Fatalf("ListFields() error = %v", err)
	}
	if gotPath != "/v1/fields" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "crop=barley" {
		t.Errorf("query = %q, want crop filter", gotQuery)
	}
	if len(fields) != 2 || fields[0].ID != "f-1" || fields[1].Crop != "maize" {
		t.Errorf("fields = %+v", fields)
	}
}

func TestListFields_NoFilter(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeData(w, []Field{})
	}))

	if _, err := c.ListFields(context.Background(), ""); err != nil {
		t.Fatalf("ListFields() error = %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want none", gotQuery)
	}
}

func TestGetField(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/fields/f-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeData(w, Field{ID: "f-1", Crop: "barley", Centroid: Coordinate{Lat: 52.1, Lon: 5.3}})
	}))

	field, err := c.GetField(context.Background(), "f-1")
	if err != nil {
		t.Fatalf("GetField() error = %v", err)
	}
	if field.Centroid.Lat != 52.1 {
		t.Errorf("Centroid = %+v", field.Centroid)
	}
}

func TestGetField_NotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"field not found"}`))
	}))

	_, err := c.GetField(context.Background(), "nope")
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("GetField() error = %T, want *api.APIError", err)
	}
	if apiErr.Kind != api.KindClient || apiErr.Status != http.StatusNotFound {
		t.Errorf("APIError = %+v", apiErr)
	}
	if apiErr.Message != "field not found" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestCreateField(t *testing.T) {
	var gotBody CreateFieldRequest
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeData(w, Field{ID: "f-9", Name: gotBody.Name, Crop: gotBody.Crop})
	}))

	field, err := c.CreateField(context.Background(), CreateFieldRequest{
		Name: "South Paddock",
		Crop: "oats",
	})
	if err != nil {
		t.Fatalf("CreateField() error = %v", err)
	}
	if gotBody.Name != "South Paddock" {
		t.Errorf("request body = %+v", gotBody)
	}
	if field.ID != "f-9" {
		t.Errorf("field = %+v", field)
	}
}

func TestDeleteField(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.DeleteField(context.Background(), "f-1")
	if err == nil {
		t.Fatal("DeleteField() accepted a 500")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (deletes are never replayed)", calls)
	}
}

func TestIrrigationAdvice(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/fields/f-1/irrigation" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeData(w, IrrigationAdvice{
			FieldID:      "f-1",
			Recommended:  true,
			DepthMm:      18.5,
			SoilMoisture: 0.22,
			Reason:       "soil moisture below crop threshold",
		})
	}))

	advice, err := c.IrrigationAdvice(context.Background(), "f-1")
	if err != nil {
		t.Fatalf("IrrigationAdvice() error = %v", err)
	}
	if !advice.Recommended || advice.DepthMm != 18.5 {
		t.Errorf("advice = %+v", advice)
	}
}
