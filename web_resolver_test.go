package ddns_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Travis-Britz/cfddns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ip":"192.168.2.1","country":"Canada","city":"Montreal","asn":"AS577"}`)
	}))
	defer srv.Close()

	wr, err := ddns.WebResolver(srv.URL)
	require.NoError(t, err)

	info, err := wr.Resolve(context.Background(), true)
	require.NoError(t, err)

	ip, err := info.IP()
	require.NoError(t, err)
	assert.Equal(t, "192.168.2.1", ip)
	assert.Equal(t, "Canada", info.Country())
	assert.Equal(t, "Montreal", info.City())
	assert.Equal(t, "AS577", info["asn"])
}

func TestLookupStatus(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		status     int
		body       string
		strict     bool
		info       ddns.PublicIPInfo
		statusErr  *ddns.HTTPStatusError
		decodeFail bool
	}{
		"strict 500": {
			status:    http.StatusInternalServerError,
			body:      "upstream\nfailure\n",
			strict:    true,
			statusErr: &ddns.HTTPStatusError{StatusCode: 500, Body: "upstream failure"},
		},
		"strict 429": {
			status:    http.StatusTooManyRequests,
			body:      `{"error":"slow down"}`,
			strict:    true,
			statusErr: &ddns.HTTPStatusError{StatusCode: 429, Body: `{"error":"slow down"}`},
		},
		"strict 404 empty body": {
			status:    http.StatusNotFound,
			strict:    true,
			statusErr: &ddns.HTTPStatusError{StatusCode: 404},
		},
		"non strict 500 error shaped body": {
			status: http.StatusInternalServerError,
			body:   `{"error":"internal"}`,
			info:   ddns.PublicIPInfo{"error": "internal"},
		},
		"non strict 500 with ip": {
			status: http.StatusInternalServerError,
			body:   `{"ip":"10.0.0.1"}`,
			info:   ddns.PublicIPInfo{"ip": "10.0.0.1"},
		},
		"non strict 500 empty body": {
			status:     http.StatusInternalServerError,
			decodeFail: true,
		},
		"strict 200 not json": {
			status:     http.StatusOK,
			body:       "192.168.2.1\n",
			strict:     true,
			decodeFail: true,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(testCase.status)
				io.WriteString(w, testCase.body)
			}))
			defer srv.Close()

			wr, err := ddns.WebResolver(srv.URL)
			require.NoError(t, err)

			info, err := wr.Resolve(context.Background(), testCase.strict)

			switch {
			case testCase.statusErr != nil:
				require.ErrorIs(t, err, ddns.ErrBadHTTPStatus)
				var statusErr *ddns.HTTPStatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, testCase.statusErr, statusErr)
				assert.Nil(t, info)
			case testCase.decodeFail:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "error decoding response body")
				assert.Nil(t, info)
			default:
				require.NoError(t, err)
				assert.Equal(t, testCase.info, info)
			}
		})
	}
}

func TestLookupCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	}))
	defer srv.Close()

	wr, err := ddns.WebResolver(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = wr.Resolve(ctx, true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWebResolverBadURL(t *testing.T) {
	t.Parallel()

	_, err := ddns.WebResolver("ftp://example.com/")
	assert.EqualError(t, err, `error parsing URL: scheme must be http or https; got "ftp"`)

	_, err = ddns.WebResolver("://")
	assert.Error(t, err)
}

func TestPublicIPInfo_IP(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		info       ddns.PublicIPInfo
		ip         string
		errMessage string
	}{
		"ip set": {
			info: ddns.PublicIPInfo{"ip": "203.0.113.7"},
			ip:   "203.0.113.7",
		},
		"nil map": {
			errMessage: `no IP address in lookup response: key "ip" not found in lookup response`,
		},
		"wrong type": {
			info:       ddns.PublicIPInfo{"ip": 42.0},
			errMessage: `no IP address in lookup response: key "ip" has type float64 instead of string`,
		},
		"empty": {
			info:       ddns.PublicIPInfo{"ip": ""},
			errMessage: `no IP address in lookup response: key "ip" is empty`,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ip, err := testCase.info.IP()

			if testCase.errMessage != "" {
				assert.ErrorIs(t, err, ddns.ErrNoIP)
				assert.EqualError(t, err, testCase.errMessage)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, testCase.ip, ip)
		})
	}
}

func TestFromString(t *testing.T) {
	t.Parallel()

	r, err := ddns.FromString("2001:db8::5")
	require.NoError(t, err)
	info, err := r.Resolve(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, ddns.PublicIPInfo{"ip": "2001:db8::5"}, info)

	_, err = ddns.FromString("not an ip")
	assert.Error(t, err)
}

func TestInterfaceResolverUnknown(t *testing.T) {
	t.Parallel()

	r := ddns.InterfaceResolver("does-not-exist0")
	_, err := r.Resolve(context.Background(), true)
	assert.ErrorContains(t, err, "error getting interface does-not-exist0 by name")
}
