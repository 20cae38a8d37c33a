package httpclient

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typeinfer/errors"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		private bool
		wantErr bool
	}{
		{"https", "https://example.com/data.csv", false, false},
		{"http with port", "http://example.com:8080/data.csv", false, false},
		{"file scheme", "file:///etc/passwd", false, true},
		{"ftp scheme", "ftp://example.com/data.csv", false, true},
		{"credentials", "http://example.com@10.0.0.1/", false, true},
		{"no host", "http:///data.csv", false, true},
		{"localhost", "http://localhost/data.csv", false, true},
		{"localhost subdomain", "http://api.localhost/data.csv", false, true},
		{"loopback", "http://127.0.0.1/data.csv", false, true},
		{"rfc1918", "http://192.168.1.10/data.csv", false, true},
		{"link-local metadata", "http://169.254.169.254/latest", false, true},
		{"ipv6 loopback", "http://[::1]/data.csv", false, true},
		{"ipv6 unique local", "http://[fd00::1]/data.csv", false, true},
		{"private allowed", "http://127.0.0.1:9000/data.csv", true, false},
		{"scheme still checked when private allowed", "file:///tmp/x", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateURL(tt.url, tt.private)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsPublic(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"8.8.8.8", true},
		{"2606:4700:4700::1111", true},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"100.64.0.1", false},
		{"0.0.0.0", false},
		{"224.0.0.1", false},
		{"240.0.0.1", false},
		{"203.0.113.5", false},
		{"::", false},
		{"fe80::1", false},
		{"fec0::1", false},
		{"ff02::1", false},
		{"2001:db8::1", false},
		{"::ffff:127.0.0.1", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPublic(net.ParseIP(tt.ip)), tt.ip)
	}
}

func TestClientBlocksPrivateServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "a,b\n1,2\n")
	}))
	defer srv.Close()

	_, err := New(WithTimeout(5 * time.Second)).Get(srv.URL + "/data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")

	resp, err := New(AllowPrivateHosts()).Get(srv.URL + "/data.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(body))
}

func TestClientRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	mux.HandleFunc("/escape", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "file:///etc/passwd", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(AllowPrivateHosts(), WithMaxRedirects(3))

	_, err := client.Get(srv.URL + "/loop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 3 redirects")

	_, err = client.Get(srv.URL + "/escape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect blocked")
}
