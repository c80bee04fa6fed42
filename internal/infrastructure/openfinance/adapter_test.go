package openfinance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"centavo/internal/domain/institution"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestHealthCheckHealthy(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"success":true,"status":"UPDATED","timestamp":"2026-08-31T12:00:00Z"}`)
	defer srv.Close()

	adapter := NewAdapter(NewClient(srv.URL, "test-key"), "bank-001")
	result, err := adapter.HealthCheck(context.Background(), "inst-a")
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if !result.Success || result.NeedsReauth {
		t.Errorf("result = %+v, want healthy", result)
	}
}

func TestHealthCheckConsentExpired(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := newTestServer(t, status, `{"success":false,"error":"unauthorized","message":"consent expired"}`)

		adapter := NewAdapter(NewClient(srv.URL, "test-key"), "bank-001")
		result, err := adapter.HealthCheck(context.Background(), "inst-a")
		srv.Close()

		if err != nil {
			t.Fatalf("status %d: HealthCheck: %v", status, err)
		}
		if !result.NeedsReauth {
			t.Errorf("status %d: NeedsReauth = false, want true", status)
		}
		if result.Success {
			t.Errorf("status %d: Success = true, want false", status)
		}
	}
}

func TestHealthCheckProviderError(t *testing.T) {
	srv := newTestServer(t, http.StatusBadGateway, `{"success":false,"error":"upstream","message":"provider down"}`)
	defer srv.Close()

	adapter := NewAdapter(NewClient(srv.URL, "test-key"), "bank-001")
	result, err := adapter.HealthCheck(context.Background(), "inst-a")
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if result.Success || result.NeedsReauth {
		t.Errorf("result = %+v, want plain failure", result)
	}
	if result.ErrorMessage == "" {
		t.Error("expected an error message describing the provider failure")
	}
}

func TestHealthCheckUnhealthyStatusInBody(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"success":true,"status":"OUTDATED","timestamp":"2026-08-31T12:00:00Z"}`)
	defer srv.Close()

	adapter := NewAdapter(NewClient(srv.URL, "test-key"), "bank-001")
	result, err := adapter.HealthCheck(context.Background(), "inst-a")
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if result.Success {
		t.Error("OUTDATED provider status should not count as healthy")
	}
}

func TestHealthCheckTransportErrorSurfaces(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	srv.Close() // connection refused

	adapter := NewAdapter(NewClient(srv.URL, "test-key"), "bank-001")
	_, err := adapter.HealthCheck(context.Background(), "inst-a")
	if err == nil {
		t.Fatal("expected transport error to surface")
	}
}

// mockInstitutionRepo implements institution.Repository for testing
type mockInstitutionRepo struct {
	GetAllFunc  func(ctx context.Context) ([]institution.Institution, error)
	GetByIDFunc func(ctx context.Context, id string) (*institution.Institution, error)
}

func (m *mockInstitutionRepo) GetAll(ctx context.Context) ([]institution.Institution, error) {
	return m.GetAllFunc(ctx)
}

func (m *mockInstitutionRepo) GetByID(ctx context.Context, id string) (*institution.Institution, error) {
	return m.GetByIDFunc(ctx, id)
}

func TestGetAllTargetsSkipsUnlinkedInstitutions(t *testing.T) {
	repo := &mockInstitutionRepo{
		GetAllFunc: func(ctx context.Context) ([]institution.Institution, error) {
			return []institution.Institution{
				{ID: "inst-a", Name: "Banco Azul", Type: institution.TypeBank, ProviderCode: "bank-001"},
				{ID: "inst-b", Name: "Manual Wallet", Type: institution.TypeBank, ProviderCode: ""},
				{ID: "inst-c", Name: "Cartao Verde", Type: institution.TypeCreditCard, ProviderCode: "card-002"},
			}, nil
		},
	}

	source := NewTargetSource(repo, NewClient("http://localhost", "test-key"), zerolog.Nop())
	targets, err := source.GetAllTargets(context.Background())
	if err != nil {
		t.Fatalf("GetAllTargets: %v", err)
	}

	if len(targets) != 2 {
		t.Fatalf("len(targets) = %d, want 2", len(targets))
	}
	if targets[0].Institution.ID != "inst-a" || targets[1].Institution.ID != "inst-c" {
		t.Errorf("targets = %v, want inst-a and inst-c", targets)
	}
	for _, target := range targets {
		if target.Adapter == nil {
			t.Errorf("target %s has nil adapter", target.Institution.ID)
		}
	}
}
