package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpulse/playpulse-backend/internal/auth"
	"github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/projects/service"
	"github.com/playpulse/playpulse-backend/internal/storage/memory"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memory.New()
	h := New(service.NewProjectService(st.Projects(), st.Updates()))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Actor"); id != "" {
			c.Set(auth.CtxUserDBID, id)
			c.Set(auth.CtxUserRole, c.GetHeader("X-Role"))
		}
		c.Next()
	})
	h.Register(r.Group("/projects"))
	h.RegisterAdmin(r.Group("/admin"))
	return r
}

func call(t *testing.T, r *gin.Engine, method, path, actor, role, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", actor)
	req.Header.Set("X-Role", role)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestProjectCRUD(t *testing.T) {
	r := newRouter(t)

	code, body := call(t, r, http.MethodPost, "/projects", "u1", "", `{"name":"Star Forge","visibility":"public"}`)
	require.Equal(t, http.StatusCreated, code, body)
	p := body["project"].(map[string]any)
	id := p["id"].(string)
	assert.Equal(t, "star-forge", p["slug"])
	assert.Equal(t, "PUBLIC", p["visibility"])

	code, body = call(t, r, http.MethodPost, "/projects", "u1", "", `{"name":"Star Forge"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "star-forge-1", body["project"].(map[string]any)["slug"])
	assert.Equal(t, "PRIVATE", body["project"].(map[string]any)["visibility"])

	code, body = call(t, r, http.MethodGet, "/projects", "u1", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["projects"], 2)

	code, body = call(t, r, http.MethodPatch, "/projects/"+id, "u1", "", `{"description":"A space sim"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "A space sim", body["project"].(map[string]any)["description"])

	code, body = call(t, r, http.MethodGet, "/projects/"+id+"/updates", "u1", "", "")
	require.Equal(t, http.StatusOK, code)
	updates := body["updates"].([]any)
	require.Len(t, updates, 1)
	assert.Equal(t, string(domain.UpdateSettingsChanged), updates[0].(map[string]any)["type"])

	code, _ = call(t, r, http.MethodGet, "/projects/"+id, "u2", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = call(t, r, http.MethodDelete, "/projects/"+id, "u1", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "project deleted", body["message"])
}

func TestProjectValidation(t *testing.T) {
	r := newRouter(t)

	code, _ := call(t, r, http.MethodPost, "/projects", "u1", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := call(t, r, http.MethodPost, "/projects", "u1", "", `{"name":"x","visibility":"secret"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["fields"], "visibility")

	code, _ = call(t, r, http.MethodGet, "/projects", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminProjects(t *testing.T) {
	r := newRouter(t)
	_, body := call(t, r, http.MethodPost, "/projects", "u1", "", `{"name":"Demo"}`)
	id := body["project"].(map[string]any)["id"].(string)

	code, _ := call(t, r, http.MethodGet, "/admin/projects", "u1", domain.RoleUser, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, body = call(t, r, http.MethodGet, "/admin/projects", "root", domain.RoleAdmin, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["projects"], 1)

	code, _ = call(t, r, http.MethodDelete, "/admin/projects/"+id, "root", domain.RoleAdmin, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodDelete, "/admin/projects/"+id, "root", domain.RoleAdmin, "")
	assert.Equal(t, http.StatusNotFound, code)
}
