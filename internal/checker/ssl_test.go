package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/ocsp"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

func newTLSTarget(t *testing.T) (*httptest.Server, scan.Target) {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, mustTarget(t, srv.URL)
}

func TestSSLChecker_TrustedCertificate(t *testing.T) {
	srv, target := newTLSTarget(t)

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())

	chk := &SSLChecker{Timeout: 5 * time.Second, RootCAs: pool}
	result := chk.Check(context.Background(), target)
	if result.Status != scan.StatusPass {
		t.Fatalf("expected pass, got %s (%s)", result.Status, result.Message)
	}
	if _, ok := result.Detail("not_after"); !ok {
		t.Error("expected not_after detail")
	}
	if _, ok := result.Detail("tls_version"); !ok {
		t.Error("expected tls_version detail")
	}
}

func TestSSLChecker_ExpiringSoon(t *testing.T) {
	srv, target := newTLSTarget(t)

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	expiry := srv.Certificate().NotAfter

	// Verification uses the real clock; only the expiry report is shifted.
	chk := &SSLChecker{
		Timeout: 5 * time.Second,
		RootCAs: pool,
		Now:     func() time.Time { return expiry.Add(-72 * time.Hour) },
	}
	result := chk.Check(context.Background(), target)
	if result.Status != scan.StatusInfo {
		t.Fatalf("expected info for a certificate expiring in 3 days, got %s (%s)", result.Status, result.Message)
	}
}

func TestSSLChecker_UntrustedCertificate(t *testing.T) {
	_, target := newTLSTarget(t)

	chk := &SSLChecker{Timeout: 5 * time.Second}
	result := chk.Check(context.Background(), target)
	if result.Status != scan.StatusFail {
		t.Fatalf("expected fail for a self-signed certificate, got %s (%s)", result.Status, result.Message)
	}
}

func TestSSLChecker_Unreachable(t *testing.T) {
	srv, target := newTLSTarget(t)
	srv.Close()

	chk := &SSLChecker{Timeout: 2 * time.Second}
	result := chk.Check(context.Background(), target)
	if result.Status != scan.StatusError {
		t.Fatalf("expected error for a closed port, got %s (%s)", result.Status, result.Message)
	}
}

func TestIssuerName(t *testing.T) {
	cert := &x509.Certificate{}
	cert.Issuer.Organization = []string{"Example CA"}
	if got := issuerName(cert); got != "Example CA" {
		t.Fatalf("expected organization fallback, got %q", got)
	}
	cert.Issuer.CommonName = "Example Root R1"
	if got := issuerName(cert); got != "Example Root R1" {
		t.Fatalf("expected common name, got %q", got)
	}
}

func TestSSLChecker_NoStapledOCSP(t *testing.T) {
	srv, target := newTLSTarget(t)

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())

	result := (&SSLChecker{Timeout: 5 * time.Second, RootCAs: pool}).Check(context.Background(), target)
	stapled, ok := result.Detail("ocsp_stapled")
	if !ok || stapled != false {
		t.Fatalf("expected ocsp_stapled=false, got %v", stapled)
	}
	if _, ok := result.Detail("ocsp_status"); ok {
		t.Fatal("expected no ocsp_status without a stapled response")
	}
}

func TestOCSPStatusName(t *testing.T) {
	tests := map[int]string{
		ocsp.Good:    "good",
		ocsp.Revoked: "revoked",
		ocsp.Unknown: "unknown",
	}
	for status, want := range tests {
		if got := ocspStatusName(status); got != want {
			t.Errorf("ocspStatusName(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestStapledOCSPStatus_Garbage(t *testing.T) {
	status, stapled := stapledOCSPStatus(tls.ConnectionState{OCSPResponse: []byte("not der")})
	if !stapled || status != "unparseable" {
		t.Fatalf("expected unparseable stapled response, got %q %v", status, stapled)
	}
}
