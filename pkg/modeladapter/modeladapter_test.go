package modeladapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/promptrunner/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_DefaultBearerAuth(t *testing.T) {
	a := &modeladapter.ModelAdapter{
		BaseURL: "https://example.com",
		Auth:    modeladapter.Auth{Key: "sk-123"},
	}

	req, err := a.NewRequest(context.Background(), http.MethodGet, "/v1/models", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/v1/models", req.URL.String())
	assert.Equal(t, "Bearer sk-123", req.Header.Get("Authorization"))
}

func TestNewRequest_CustomHeader(t *testing.T) {
	a := &modeladapter.ModelAdapter{
		BaseURL: "https://example.com",
		Auth:    modeladapter.Auth{Key: "goog-key", Header: "x-goog-api-key"},
	}

	req, err := a.NewRequest(context.Background(), http.MethodPost, "/", nil)
	require.NoError(t, err)

	assert.Equal(t, "goog-key", req.Header.Get("x-goog-api-key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestNewRequest_CustomHeaderWithScheme(t *testing.T) {
	a := &modeladapter.ModelAdapter{
		BaseURL: "https://example.com",
		Auth:    modeladapter.Auth{Key: "tok", Header: "X-Auth", Scheme: "Token"},
	}

	req, err := a.NewRequest(context.Background(), http.MethodPost, "/", nil)
	require.NoError(t, err)

	assert.Equal(t, "Token tok", req.Header.Get("X-Auth"))
}

func TestNewRequest_EmptyKeySendsNoAuth(t *testing.T) {
	a := &modeladapter.ModelAdapter{
		BaseURL: "https://example.com",
		Auth:    modeladapter.Auth{Header: "x-goog-api-key"},
	}

	req, err := a.NewRequest(context.Background(), http.MethodPost, "/", nil)
	require.NoError(t, err)

	assert.Empty(t, req.Header.Get("x-goog-api-key"))
}

func TestNewRequest_ExtraHeaders(t *testing.T) {
	a := &modeladapter.ModelAdapter{
		BaseURL: "https://example.com",
		Headers: map[string]string{"X-Trace": "abc"},
	}

	req, err := a.NewRequest(context.Background(), http.MethodPost, "/", nil)
	require.NoError(t, err)

	assert.Equal(t, "abc", req.Header.Get("X-Trace"))
}

func TestPostJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var in map[string]string
		assert.NoError(t, json.Unmarshal(body, &in))
		assert.Equal(t, "ping", in["msg"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"msg":"pong"}`))
	}))
	t.Cleanup(srv.Close)

	a := &modeladapter.ModelAdapter{BaseURL: srv.URL}

	var out map[string]string
	err := a.PostJSON(context.Background(), "/echo", map[string]string{"msg": "ping"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "pong", out["msg"])
}

func TestPostJSON_NilDest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(srv.Close)

	a := &modeladapter.ModelAdapter{BaseURL: srv.URL}

	assert.NoError(t, a.PostJSON(context.Background(), "/", struct{}{}, nil))
}

func TestPostJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	}))
	t.Cleanup(srv.Close)

	a := &modeladapter.ModelAdapter{BaseURL: srv.URL}
	err := a.PostJSON(context.Background(), "/", struct{}{}, nil)

	var se *modeladapter.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "boom", se.Body)
	assert.False(t, modeladapter.IsAuthError(err))
}

func TestPostJSON_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{`))
	}))
	t.Cleanup(srv.Close)

	a := &modeladapter.ModelAdapter{BaseURL: srv.URL}

	var out map[string]any
	err := a.PostJSON(context.Background(), "/", struct{}{}, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestPostJSON_UsesCustomClient(t *testing.T) {
	called := false
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("offline")
	})}

	a := &modeladapter.ModelAdapter{BaseURL: "http://unused.invalid", Client: client}
	err := a.PostJSON(context.Background(), "/", struct{}{}, nil)

	require.Error(t, err)
	assert.True(t, called)
	assert.Contains(t, err.Error(), "do request")
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, modeladapter.IsAuthError(&modeladapter.StatusError{StatusCode: http.StatusUnauthorized}))
	assert.True(t, modeladapter.IsAuthError(fmt.Errorf("wrapped: %w", &modeladapter.StatusError{StatusCode: http.StatusForbidden})))
	assert.False(t, modeladapter.IsAuthError(&modeladapter.StatusError{StatusCode: http.StatusBadRequest}))
	assert.False(t, modeladapter.IsAuthError(errors.New("plain")))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
