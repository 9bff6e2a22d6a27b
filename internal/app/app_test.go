package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"amora_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	router, _ := SetupRouter(cfg, db)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHTTP_Healthz(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTP_IdentityRequired(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/consumables/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/consumables/balance", "not-a-uuid", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTP_SwipeFlowEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	router, _ := SetupRouter(cfg, db)

	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/swipes", alice, map[string]string{
		"target_id": bob,
		"action":    "like",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"is_match":false`)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/swipes", bob, map[string]string{
		"target_id": alice,
		"action":    "like",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"is_match":true`)

	// Матч виден обоим участникам
	rec = doJSON(t, router, http.MethodGet, "/api/v1/matches", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf(`"other_user_id":"%s"`, bob))
}

func TestHTTP_SwipeValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	router, _ := SetupRouter(cfg, db)

	alice := testutil.CreateUser(t, db)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/swipes", alice, map[string]string{
		"target_id": "not-a-uuid",
		"action":    "like",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/swipes", alice, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_BalanceAndBlockedSuperLike(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	router, _ := SetupRouter(cfg, db)

	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)
	carol := testutil.CreateUser(t, db)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/consumables/balance", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"super_likes":1`)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/swipes", alice, map[string]string{
		"target_id": bob,
		"action":    "superlike",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"blocked"`)

	// Баланс выжжен - вторая попытка дает PolicyBlock в успешном ответе
	rec = doJSON(t, router, http.MethodPost, "/api/v1/swipes", alice, map[string]string{
		"target_id": carol,
		"action":    "superlike",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"no_super_likes"`)
}
