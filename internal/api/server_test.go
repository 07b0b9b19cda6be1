package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"petpad-launchpad/internal/domain"
	"petpad-launchpad/internal/ledger"
	"petpad-launchpad/internal/scanner"
	"petpad-launchpad/internal/storage/memory"
)

type fixedStatus struct {
	status scanner.Status
}

func (f *fixedStatus) Status() scanner.Status { return f.status }

func seedLedger(t *testing.T, n int) *ledger.Ledger {
	t.Helper()
	led := ledger.New(memory.NewProcessedPostStore(), memory.NewLaunchStore())
	pets := []domain.PetType{domain.PetDog, domain.PetCat, domain.PetHamster, domain.PetBunny}
	for i := 0; i < n; i++ {
		rec := &domain.LaunchRecord{
			Request: domain.LaunchRequest{
				Name:        fmt.Sprintf("Pet %d", i),
				Symbol:      fmt.Sprintf("PET%d", i),
				Wallet:      "0x1234567890abcdef1234567890abcdef12345678",
				Description: "A very good pet",
				PetType:     pets[i%len(pets)],
			},
			ImageURL:        fmt.Sprintf("https://img.example/pet%d.png", i),
			ContractAddress: fmt.Sprintf("0xc0ffee%034d", i),
			TxHash:          fmt.Sprintf("0xhash%d", i),
			LaunchPageURL:   fmt.Sprintf("https://clawn.ch/t/pet%d", i),
			SourcePostID:    fmt.Sprintf("post-%d", i),
			SourcePostURL:   fmt.Sprintf("https://feed.example/post/post-%d", i),
			AnnouncePostID:  fmt.Sprintf("announce-%d", i),
			AnnouncePostURL: fmt.Sprintf("https://feed.example/post/announce-%d", i),
			AgentName:       "alice",
			LaunchedAt:      int64(1700000000000 + i),
		}
		if err := led.Commit(context.Background(), rec); err != nil {
			t.Fatalf("seed commit %d: %v", i, err)
		}
	}
	return led
}

func newTestServer(t *testing.T, led *ledger.Ledger, status StatusSource) *httptest.Server {
	t.Helper()
	s := NewServer(Options{
		Ledger: led,
		Status: status,
		Logger: log.New(io.Discard, "", 0),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestRoot(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 0), nil)

	var body map[string]any
	resp := getJSON(t, ts.URL+"/", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if body["service"] != "PetPad Launchpad" {
		t.Errorf("service: got %v", body["service"])
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %v", body["status"])
	}
	if body["uptime"] == "" {
		t.Error("uptime missing")
	}
	if body["tokensLaunched"] != float64(0) {
		t.Errorf("tokensLaunched: got %v", body["tokensLaunched"])
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}
}

func TestRoot_UnknownPath(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 0), nil)

	resp := getJSON(t, ts.URL+"/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	status := &fixedStatus{status: scanner.Status{
		Running:   false,
		LastScan:  time.Unix(1700000000, 0),
		ScanCount: 3,
	}}
	ts := newTestServer(t, seedLedger(t, 2), status)

	var body struct {
		Success        bool   `json:"success"`
		Status         string `json:"status"`
		ScannerEnabled bool   `json:"scannerEnabled"`
		TokensLaunched int    `json:"tokensLaunched"`
		ScanCount      int    `json:"scanCount"`
		LastScan       string `json:"lastScan"`
	}
	getJSON(t, ts.URL+"/api/health", &body)

	if !body.Success || body.Status != "ok" {
		t.Errorf("status: got success=%v status=%q", body.Success, body.Status)
	}
	if !body.ScannerEnabled {
		t.Error("scannerEnabled: got false")
	}
	if body.TokensLaunched != 2 {
		t.Errorf("tokensLaunched: got %d", body.TokensLaunched)
	}
	if body.ScanCount != 3 {
		t.Errorf("scanCount: got %d", body.ScanCount)
	}
	if body.LastScan == "" {
		t.Error("lastScan must be set after a completed scan")
	}
}

func TestHealth_ScannerDisabled(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 0), nil)

	var body map[string]any
	getJSON(t, ts.URL+"/api/health", &body)

	if body["scannerEnabled"] != false {
		t.Errorf("scannerEnabled: got %v", body["scannerEnabled"])
	}
	if _, ok := body["scanner"]; ok {
		t.Error("scanner block must be absent when disabled")
	}
}

func TestTokens(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 2), nil)

	var body struct {
		Count  int             `json:"count"`
		Tokens []tokenResponse `json:"tokens"`
	}
	getJSON(t, ts.URL+"/api/tokens", &body)

	if body.Count != 2 || len(body.Tokens) != 2 {
		t.Fatalf("count: got %d with %d tokens", body.Count, len(body.Tokens))
	}

	// Newest first.
	tok := body.Tokens[0]
	if tok.Symbol != "PET1" {
		t.Errorf("first token: got %q, want newest", tok.Symbol)
	}
	if tok.ChartURL != "https://dexscreener.com/base/"+tok.ContractAddress {
		t.Errorf("chartUrl: got %q", tok.ChartURL)
	}
	wantTrade := "https://app.uniswap.org/swap?outputCurrency=" + tok.ContractAddress + "&chain=base"
	if tok.TradeURL != wantTrade {
		t.Errorf("tradeUrl: got %q", tok.TradeURL)
	}
}

func TestLaunches_Pagination(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 7), nil)

	var body struct {
		Launches   []launchResponse `json:"launches"`
		Pagination struct {
			Limit   int  `json:"limit"`
			Offset  int  `json:"offset"`
			Total   int  `json:"total"`
			HasMore bool `json:"hasMore"`
		} `json:"pagination"`
	}
	getJSON(t, ts.URL+"/api/launches?limit=3&offset=3", &body)

	if len(body.Launches) != 3 {
		t.Fatalf("launches: got %d, want 3", len(body.Launches))
	}
	p := body.Pagination
	if p.Limit != 3 || p.Offset != 3 || p.Total != 7 || !p.HasMore {
		t.Errorf("pagination: %+v", p)
	}

	// Newest-first ordering continues across pages.
	if body.Launches[0].Symbol != "PET3" {
		t.Errorf("first on page: got %q", body.Launches[0].Symbol)
	}
}

func TestLaunches_Filter(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 8), nil)

	var body struct {
		Launches   []launchResponse `json:"launches"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	getJSON(t, ts.URL+"/api/launches?petType=cat", &body)

	if body.Pagination.Total != 2 {
		t.Fatalf("total cats: got %d, want 2", body.Pagination.Total)
	}
	for _, l := range body.Launches {
		if l.PetType != "cat" {
			t.Errorf("filtered launch has petType %q", l.PetType)
		}
	}
}

func TestLaunches_InvalidQuery(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 1), nil)

	for _, q := range []string{"?limit=abc", "?offset=-1"} {
		resp := getJSON(t, ts.URL+"/api/launches"+q, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: got status %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 5), nil)

	var body struct {
		TotalLaunches int            `json:"totalLaunches"`
		PetTypeCounts map[string]int `json:"petTypeCounts"`
	}
	getJSON(t, ts.URL+"/api/stats", &body)

	if body.TotalLaunches != 5 {
		t.Errorf("totalLaunches: got %d", body.TotalLaunches)
	}
	// Seed rotation: dog, cat, hamster, bunny, dog.
	want := map[string]int{"dog": 2, "cat": 1, "hamster": 1, "bunny": 1}
	for pet, n := range want {
		if body.PetTypeCounts[pet] != n {
			t.Errorf("petTypeCounts[%s]: got %d, want %d", pet, body.PetTypeCounts[pet], n)
		}
	}
	if _, ok := body.PetTypeCounts["bunny"]; !ok {
		t.Error("zero-count pet types must still appear")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 0), nil)

	resp := getJSON(t, ts.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status: got %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, seedLedger(t, 0), nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/tokens", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status: got %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight missing allow-methods header")
	}
}
