package http

import (
	"encoding/json"
	"net/http"
	"testing"
)

func getJSON(t *testing.T, url string) map[string]any {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("GET %s: bad JSON: %v", url, err)
	}
	return body
}

func TestAPI_Status(t *testing.T) {
	srv := newTestServer(t)

	body := getJSON(t, srv.URL+"/api/status")
	if body["status"] != "online" {
		t.Fatalf("unexpected status body: %v", body)
	}
	if body["version"] != Version {
		t.Fatalf("unexpected version: %v", body["version"])
	}
}

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	body := getJSON(t, srv.URL+"/api/health")
	if body["status"] != "healthy" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestAPI_PeerCount(t *testing.T) {
	srv := newTestServer(t)

	body := getJSON(t, srv.URL+"/api/peers/count")
	if body["count"] != float64(0) {
		t.Fatalf("expected 0 peers, got %v", body["count"])
	}

	dial(t, srv)
	dial(t, srv)

	body = getJSON(t, srv.URL+"/api/peers/count")
	if body["count"] != float64(2) {
		t.Fatalf("expected 2 peers, got %v", body["count"])
	}
}
