package ginapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/go-toolgen/examples/calculator"
	"github.com/petasbytes/go-toolgen/toolkit/ginapi"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ginapi.Mount(r, calculator.Registry())
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestList(t *testing.T) {
	w := serve(newRouter(), http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := gjson.Parse(w.Body.String())
	assert.Equal(t, int64(13), body.Get("tools.#").Int())
	assert.Equal(t, "add", body.Get("tools.0.name").String())
	assert.Equal(t, "number", body.Get("tools.0.parameters.properties.a.type").String())
}

func TestCall(t *testing.T) {
	r := newRouter()
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantKey  string
		wantVal  string
	}{
		{"ok", "/tools/add", `{"a":5,"b":2}`, http.StatusOK, "output", "7"},
		{"empty body", "/tools/some_secret_tool", "", http.StatusOK, "output", "salad, cucumber, feta, tomatoes"},
		{"unknown tool", "/tools/nope", `{}`, http.StatusNotFound, "error", "tool not found: nope"},
		{"bad arguments", "/tools/add", `{"a":"five"}`, http.StatusBadRequest, "error", ""},
		{"tool failure", "/tools/divide", `{"a":1,"b":0}`, http.StatusUnprocessableEntity, "error", "tool execution failed: division by zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			got := gjson.Get(w.Body.String(), tt.wantKey)
			require.True(t, got.Exists(), "body: %s", w.Body.String())
			if tt.wantVal != "" {
				assert.Equal(t, tt.wantVal, got.String())
			}
		})
	}
}
