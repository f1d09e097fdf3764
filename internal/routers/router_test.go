package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haierkeys/fast-latex-notes/internal/app"
	"github.com/haierkeys/fast-latex-notes/internal/dto"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/memory"
	"github.com/haierkeys/fast-latex-notes/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Code    int             `json:"code"`
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Details []string        `json:"details"`
	Data    json.RawMessage `json:"data"`
}

func init() {
	gin.SetMode(gin.TestMode)
	v := validator.NewCustomValidator()
	if err := v.RegisterRule(dto.ColorTagRuleName, dto.ColorTagRule); err != nil {
		panic(err)
	}
	binding.Validator = v
}

func newTestRouter(t *testing.T, mutate func(c *app.AppConfig)) *gin.Engine {
	t.Helper()
	c, err := app.DefaultConfig()
	require.NoError(t, err)
	c.Storage.Type = storage.Memory
	c.Log.Production = false
	if mutate != nil {
		mutate(c)
	}

	a, err := app.NewApp(c, zap.NewNop(), app.WithStore(memory.NewClient()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return NewRouter(a, nil)
}

func do(t *testing.T, r http.Handler, method, target string, body any) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestVersion(t *testing.T) {
	r := newTestRouter(t, nil)
	env := do(t, r, http.MethodGet, "/api/version", nil)

	assert.True(t, env.Status)
	var v dto.VersionDTO
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, app.Name, v.Name)
}

func TestNoRoute(t *testing.T) {
	r := newTestRouter(t, nil)
	env := do(t, r, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, code.ErrorNotFoundAPI.Code(), env.Code)
	assert.Equal(t, []string{"GET /api/nothing"}, env.Details)
}

func TestEquationLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)

	// 冷启动返回空列表并写入示例
	env := do(t, r, http.MethodGet, "/api/equations", nil)
	require.True(t, env.Status)
	var list struct {
		List []*dto.EquationDTO `json:"list"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.List)

	env = do(t, r, http.MethodGet, "/api/equations", nil)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.List, 14)

	env = do(t, r, http.MethodPost, "/api/equation", map[string]any{
		"title": "Gauss",
		"latex": `\oint E \cdot dA = Q / \epsilon_0`,
		"tags":  []string{"Blue", "raycast-red"},
	})
	require.True(t, env.Status, env.Message)
	var created dto.EquationDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, []string{"raycast-blue", "raycast-red"}, created.Tags)

	env = do(t, r, http.MethodGet, "/api/equation?id="+created.ID, nil)
	require.True(t, env.Status)

	env = do(t, r, http.MethodPost, "/api/equation/favorite", map[string]string{"id": created.ID})
	var fav dto.EquationDTO
	require.NoError(t, json.Unmarshal(env.Data, &fav))
	assert.True(t, fav.Favorite)

	env = do(t, r, http.MethodPost, "/api/equation/duplicate", map[string]string{"id": created.ID})
	var dup dto.EquationDTO
	require.NoError(t, json.Unmarshal(env.Data, &dup))
	assert.Equal(t, "Gauss (Copy)", dup.Title)
	assert.NotEqual(t, created.ID, dup.ID)

	env = do(t, r, http.MethodPut, "/api/equation", map[string]any{
		"id":    created.ID,
		"title": "Gauss's law",
		"latex": `\nabla \cdot E = \rho / \epsilon_0`,
		"tags":  []string{"Green"},
	})
	var edited dto.EquationDTO
	require.NoError(t, json.Unmarshal(env.Data, &edited))
	assert.Equal(t, "Gauss's law", edited.Title)
	assert.True(t, edited.Favorite)

	env = do(t, r, http.MethodGet, "/api/equations/grouped?filter=favorite", nil)
	var groups []*dto.EquationGroupDTO
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "Favorite", groups[0].Name)

	env = do(t, r, http.MethodDelete, "/api/equation?id="+created.ID, nil)
	assert.True(t, env.Status)

	env = do(t, r, http.MethodGet, "/api/equation?id="+created.ID, nil)
	assert.Equal(t, code.ErrorEquationNotFound.Code(), env.Code)
	assert.Equal(t, []string{created.ID}, env.Details)

	env = do(t, r, http.MethodDelete, "/api/equations", nil)
	assert.True(t, env.Status)
}

func TestCreateRejectsUnknownTag(t *testing.T) {
	r := newTestRouter(t, nil)
	env := do(t, r, http.MethodPost, "/api/equation", map[string]any{
		"title": "x",
		"latex": "x",
		"tags":  []string{"Teal"},
	})
	assert.Equal(t, code.ErrorInvalidParams.Code(), env.Code)
	require.Len(t, env.Details, 1)
	assert.NotEmpty(t, env.Details[0])
}

func TestCreateAcceptsEmptyLatex(t *testing.T) {
	r := newTestRouter(t, nil)
	env := do(t, r, http.MethodPost, "/api/equation", map[string]any{
		"title": "Blank",
		"latex": "",
		"tags":  []string{"Blue"},
	})
	require.True(t, env.Status, env.Message)
	var created dto.EquationDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))

	env = do(t, r, http.MethodGet, "/api/equation?id="+created.ID, nil)
	require.True(t, env.Status)
	var got dto.EquationDTO
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Blank", got.Title)
	assert.Equal(t, "", got.Latex)
}

func TestCreateRequiresTags(t *testing.T) {
	r := newTestRouter(t, nil)
	env := do(t, r, http.MethodPost, "/api/equation", map[string]any{
		"title": "x",
		"latex": "x",
	})
	assert.Equal(t, code.ErrorInvalidParams.Code(), env.Code)
}

func TestTemplatesAndRenderURL(t *testing.T) {
	r := newTestRouter(t, nil)

	env := do(t, r, http.MethodGet, "/api/template/categories", nil)
	var names []string
	require.NoError(t, json.Unmarshal(env.Data, &names))
	require.NotEmpty(t, names)
	assert.Equal(t, "Fractions", names[0])

	env = do(t, r, http.MethodGet, "/api/templates?category=Fractions", nil)
	var cats []*dto.TemplateCategoryDTO
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, `\frac{a}{b}`, cats[0].Templates[0].Latex)

	env = do(t, r, http.MethodGet, "/api/templates?category=Nope", nil)
	assert.Equal(t, code.ErrorTemplateCategoryNotFound.Code(), env.Code)

	env = do(t, r, http.MethodGet, "/api/render/url?latex=x%5E2&dark=true", nil)
	var u dto.RenderURLDTO
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "https://latex.codecogs.com/png.image?%5Ccolor%7BWhite%7Dx%5E2", u.URL)
	assert.True(t, u.Dark)
}

func TestAuthToken(t *testing.T) {
	r := newTestRouter(t, func(c *app.AppConfig) { c.Security.AuthToken = "secret" })

	env := do(t, r, http.MethodGet, "/api/color-tags", nil)
	assert.Equal(t, code.ErrorInvalidAuthToken.Code(), env.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/color-tags", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.True(t, strings.Contains(w.Body.String(), "raycast-blue"))

	// 版本接口无需认证
	env = do(t, r, http.MethodGet, "/api/version", nil)
	assert.True(t, env.Status)
}

func TestPrivateRouterMetrics(t *testing.T) {
	r := NewPrivateRouterWithLogger("release", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "memstats")
}
