package download

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/handiism/poster-downloader/internal/http"
	"github.com/handiism/poster-downloader/internal/model"
)

// Transport failure kinds.
const (
	KindTimeout           = "timeout"
	KindDNS               = "dns_error"
	KindConnectionRefused = "connection_refused"
	KindConnectionReset   = "connection_reset"
	KindTLS               = "tls_error"
	KindUnexpectedEOF     = "unexpected_eof"
	KindInvalidURL        = "invalid_url"
	KindTooManyRedirects  = "too_many_redirects"
	KindConnection        = "connection_error"
)

// classify maps an error from the network phase to a reason tag.
// Errors that are not recognizably about the network become
// unexpected_<kind> with a diagnostic detail.
func classify(ctx context.Context, err error) (reason, detail string) {
	if ctx.Err() != nil {
		return model.ReasonCancelled, ""
	}
	if kind := transportKind(err); kind != "" {
		return kind, ""
	}
	return model.UnexpectedReason(unexpectedKind(err)), describe(err)
}

func transportKind(err error) string {
	var (
		dnsErr      *net.DNSError
		urlErr      *url.Error
		opErr       *net.OpError
		netErr      net.Error
		recordErr   tls.RecordHeaderError
		certErr     *tls.CertificateVerificationError
		authorityEr x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidErr  x509.CertificateInvalidError
	)

	switch {
	case errors.Is(err, http.ErrReadTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &dnsErr):
		return KindDNS
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindConnectionRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ECONNABORTED):
		return KindConnectionReset
	case errors.As(err, &recordErr), errors.As(err, &certErr), errors.As(err, &authorityEr),
		errors.As(err, &hostnameErr), errors.As(err, &invalidErr):
		return KindTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return KindUnexpectedEOF
	case errors.As(err, &urlErr) && urlErr.Op == "parse":
		return KindInvalidURL
	case strings.Contains(err.Error(), "stopped after") && strings.Contains(err.Error(), "redirects"):
		return KindTooManyRedirects
	case strings.Contains(err.Error(), "no Host in request URL"),
		strings.Contains(err.Error(), "unsupported protocol scheme"):
		return KindInvalidURL
	case errors.As(err, &opErr):
		return KindConnection
	case errors.As(err, &urlErr):
		// Anything else surfaced by http.Client.Do.
		return KindConnection
	}
	return ""
}

// unexpectedKind names a non-network failure, typically from the store.
func unexpectedKind(err error) string {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, fs.ErrPermission):
		return "permission_denied"
	case errors.Is(err, syscall.ENOSPC):
		return "disk_full"
	case errors.As(err, &pathErr):
		return "path_error"
	}
	return "error"
}

// describe renders err and its wrapped chain, one level per line.
func describe(err error) string {
	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(&b, "%T: %v\n", e, e)
	}
	return strings.TrimRight(b.String(), "\n")
}
