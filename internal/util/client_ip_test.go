package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPIgnoresForwardedFromUntrustedPeer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:44321"
	req.Header.Set("X-Forwarded-For", "198.51.100.9")

	if got := ClientIP(req, nil); got != "203.0.113.7" {
		t.Fatalf("client ip = %q, want direct peer", got)
	}
}

func TestClientIPWalksForwardedChainBehindTrustedProxy(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("parse trusted proxies: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:9000"
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.9.9.9")

	if got := ClientIP(req, trusted); got != "198.51.100.9" {
		t.Fatalf("client ip = %q, want rightmost untrusted hop", got)
	}
}

func TestClientIPOnlyForwardedForIsConsulted(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("parse trusted proxies: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:9000"
	req.Header.Set("X-Real-IP", "198.51.100.9")

	if got := ClientIP(req, trusted); got != "10.1.2.3" {
		t.Fatalf("client ip = %q, other headers must not override the peer", got)
	}
}

func TestClientIPUnmapsMappedPeerAddress(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("parse trusted proxies: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::ffff:10.1.2.3]:9000"
	req.Header.Set("X-Forwarded-For", "198.51.100.9")

	if got := ClientIP(req, trusted); got != "198.51.100.9" {
		t.Fatalf("client ip = %q, mapped peer should still count as trusted", got)
	}
}

func TestNewTrustedProxiesRejectsGarbage(t *testing.T) {
	if _, err := NewTrustedProxies([]string{"not-an-ip"}); err == nil {
		t.Fatal("expected parse error")
	}
	trusted, err := NewTrustedProxies(nil)
	if err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if trusted != nil {
		t.Fatal("empty input must mean trust none")
	}
}
