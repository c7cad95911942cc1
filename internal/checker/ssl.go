package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ocsp"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
	consts "github.com/khanhnv2901/webcomply/internal/shared/constants"
)

// CertificateInfo summarises the leaf certificate presented by the target.
type CertificateInfo struct {
	Subject         string
	Issuer          string
	NotBefore       time.Time
	NotAfter        time.Time
	DNSNames        []string
	SelfSigned      bool
	DaysUntilExpiry int
	SignatureAlg    string
}

// SSLChecker verifies that the target serves a trusted, unexpired certificate.
type SSLChecker struct {
	Timeout time.Duration
	RootCAs *x509.CertPool
	Now     func() time.Time
}

// Check performs a verified TLS handshake with the target.
func (c *SSLChecker) Check(ctx context.Context, target scan.Target) scan.Result {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.Timeout},
		Config: &tls.Config{
			ServerName: target.Host(),
			RootCAs:    c.RootCAs,
			MinVersion: tls.VersionTLS10,
		},
	}

	address := target.TLSAddress()
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		if isCertificateError(err) {
			return scan.Fail(scan.CheckSSL, "certificate for %s is not trusted: %v", target.Host(), err).
				WithDetail("address", address)
		}
		return scan.ErrorResult(scan.CheckSSL, fmt.Errorf("TLS handshake with %s failed: %w", address, err))
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return scan.ErrorResult(scan.CheckSSL, fmt.Errorf("unexpected connection type %T", conn))
	}
	state := tlsConn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return scan.Fail(scan.CheckSSL, "%s presented no certificate", address)
	}

	info := analyzeCertificate(state.PeerCertificates[0], now())
	result := scan.Pass(scan.CheckSSL, "valid certificate issued by %s, expires %s (%d days)",
		info.Issuer, info.NotAfter.Format("2006-01-02"), info.DaysUntilExpiry)

	ocspStatus, stapled := stapledOCSPStatus(state)
	switch {
	case stapled && ocspStatus == ocspStatusName(ocsp.Revoked):
		result = scan.Fail(scan.CheckSSL, "certificate for %s has been revoked", target.Host())
	case time.Duration(info.DaysUntilExpiry)*24*time.Hour < consts.TLSSoonExpiryWindow:
		result = scan.Info(scan.CheckSSL, "certificate is valid but expires soon: %s (%d days)",
			info.NotAfter.Format("2006-01-02"), info.DaysUntilExpiry)
	}
	if stapled {
		result = result.WithDetail("ocsp_status", ocspStatus)
	}

	return result.
		WithDetail("subject", info.Subject).
		WithDetail("issuer", info.Issuer).
		WithDetail("not_after", info.NotAfter.UTC().Format(time.RFC3339)).
		WithDetail("days_remaining", info.DaysUntilExpiry).
		WithDetail("dns_names", info.DNSNames).
		WithDetail("tls_version", tls.VersionName(state.Version)).
		WithDetail("signature_algorithm", info.SignatureAlg).
		WithDetail("ocsp_stapled", stapled)
}

// Name returns the name of this checker
func (c *SSLChecker) Name() scan.CheckName {
	return scan.CheckSSL
}

func analyzeCertificate(cert *x509.Certificate, now time.Time) CertificateInfo {
	return CertificateInfo{
		Subject:         cert.Subject.String(),
		Issuer:          issuerName(cert),
		NotBefore:       cert.NotBefore,
		NotAfter:        cert.NotAfter,
		DNSNames:        cert.DNSNames,
		SelfSigned:      cert.Subject.String() == cert.Issuer.String(),
		DaysUntilExpiry: int(cert.NotAfter.Sub(now).Hours() / 24),
		SignatureAlg:    cert.SignatureAlgorithm.String(),
	}
}

func issuerName(cert *x509.Certificate) string {
	if cert.Issuer.CommonName != "" {
		return cert.Issuer.CommonName
	}
	if len(cert.Issuer.Organization) > 0 {
		return cert.Issuer.Organization[0]
	}
	return cert.Issuer.String()
}

// stapledOCSPStatus parses the OCSP response stapled to the handshake, if any.
func stapledOCSPStatus(state tls.ConnectionState) (string, bool) {
	if len(state.OCSPResponse) == 0 {
		return "", false
	}
	var issuer *x509.Certificate
	switch {
	case len(state.VerifiedChains) > 0 && len(state.VerifiedChains[0]) > 1:
		issuer = state.VerifiedChains[0][1]
	case len(state.PeerCertificates) > 1:
		issuer = state.PeerCertificates[1]
	}
	resp, err := ocsp.ParseResponse(state.OCSPResponse, issuer)
	if err != nil {
		return "unparseable", true
	}
	return ocspStatusName(resp.Status), true
}

func ocspStatusName(status int) string {
	switch status {
	case ocsp.Good:
		return "good"
	case ocsp.Revoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// isCertificateError distinguishes a rejected certificate (a compliance
// failure) from a network fault (a check error).
func isCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostname x509.HostnameError
	var invalid x509.CertificateInvalidError
	return errors.As(err, &verifyErr) ||
		errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid)
}
