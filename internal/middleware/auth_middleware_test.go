package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brasa_ops_backend/pkg/utils"
)

func protectedRouter(allowedRoles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthMiddleware())
	if len(allowedRoles) > 0 {
		group.Use(RoleAuthMiddleware(allowedRoles...))
	}
	group.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    c.GetInt64("userID"),
			"role":       c.GetString("userRole"),
			"store_id":   c.GetInt64("storeID"),
			"company_id": c.GetString("companyID"),
		})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	r := protectedRouter()

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer not-a-token").Code)
}

func TestAuthMiddlewarePopulatesClaims(t *testing.T) {
	token, err := utils.GenerateAccessToken(7, "jsilva", RoleManager, 3, "brasa")
	require.NoError(t, err)

	w := doRequest(protectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
	assert.Contains(t, w.Body.String(), `"store_id":3`)
	assert.Contains(t, w.Body.String(), `"company_id":"brasa"`)
}

func TestRoleAuthMiddleware(t *testing.T) {
	r := protectedRouter(RoleDirector, RoleAdmin)

	managerToken, err := utils.GenerateAccessToken(7, "jsilva", RoleManager, 3, "brasa")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+managerToken).Code)

	directorToken, err := utils.GenerateAccessToken(8, "mdavis", RoleDirector, 0, "brasa")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+directorToken).Code)
}

func TestIsPrivileged(t *testing.T) {
	assert.True(t, IsPrivileged(RoleDirector))
	assert.True(t, IsPrivileged(RoleAdmin))
	assert.True(t, IsPrivileged("Director"))
	assert.False(t, IsPrivileged(RoleManager))
	assert.False(t, IsPrivileged(RoleStoreAdmin))
	assert.False(t, IsPrivileged(""))
}
