package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Envelope is the JSON body every API response is wrapped in
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// APIClient issues JSON requests against an in-process engine.
// Token, when set, is sent as a bearer credential.
type APIClient struct {
	T        *testing.T
	Engine   *gin.Engine
	BasePath string
	Token    string
}

// NewAPIClient creates a client for engine with paths relative to basePath
func NewAPIClient(t *testing.T, engine *gin.Engine, basePath string) *APIClient {
	return &APIClient{T: t, Engine: engine, BasePath: basePath}
}

// Do sends a request and decodes the response envelope
func (c *APIClient) Do(method, path string, body any) (*httptest.ResponseRecorder, Envelope) {
	c.T.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = ToJSONReader(c.T, body)
	}

	req := httptest.NewRequest(method, c.BasePath+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	w := httptest.NewRecorder()
	c.Engine.ServeHTTP(w, req)

	var env Envelope
	require.NoError(c.T, json.Unmarshal(w.Body.Bytes(), &env), "response is not an envelope: %s", w.Body.String())
	return w, env
}

// Expect sends a request, requires the status and, when out is non-nil,
// decodes the success payload into it.
func (c *APIClient) Expect(status int, method, path string, body, out any) Envelope {
	c.T.Helper()

	w, env := c.Do(method, path, body)
	require.Equal(c.T, status, w.Code, w.Body.String())
	if out != nil {
		require.True(c.T, env.Success, w.Body.String())
		require.NoError(c.T, json.Unmarshal(env.Data, out))
	}
	return env
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
