package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenityspa/wellness-api/pkg/auth"
)

func newTestRouter(jwtSvc auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/", Auth(jwtSvc))
	protected.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": UserID(c).String(),
			"role":    Role(c),
		})
	})
	protected.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	optional := r.Group("/", OptionalAuth(jwtSvc))
	optional.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c).String()})
	})

	return r
}

func testJWT() auth.JWTService {
	return auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh",
		Expiry:        time.Hour,
	})
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingTokenRejected(t *testing.T) {
	r := newTestRouter(testJWT())

	w := doRequest(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MalformedHeaderRejected(t *testing.T) {
	r := newTestRouter(testJWT())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidTokenSetsIdentity(t *testing.T) {
	jwtSvc := testJWT()
	r := newTestRouter(jwtSvc)

	userID := uuid.New()
	token, err := jwtSvc.GenerateAccessToken(userID, "jane@example.com", "client")
	require.NoError(t, err)

	w := doRequest(r, "/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "client")
}

func TestRequireRole_Enforced(t *testing.T) {
	jwtSvc := testJWT()
	r := newTestRouter(jwtSvc)

	clientToken, err := jwtSvc.GenerateAccessToken(uuid.New(), "jane@example.com", "client")
	require.NoError(t, err)
	adminToken, err := jwtSvc.GenerateAccessToken(uuid.New(), "root@example.com", "admin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doRequest(r, "/admin", clientToken).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "/admin", adminToken).Code)
}

func TestOptionalAuth_AnonymousAllowed(t *testing.T) {
	r := newTestRouter(testJWT())

	w := doRequest(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), uuid.Nil.String())
}

func TestOptionalAuth_IdentityWhenTokenPresent(t *testing.T) {
	jwtSvc := testJWT()
	r := newTestRouter(jwtSvc)

	userID := uuid.New()
	token, err := jwtSvc.GenerateAccessToken(userID, "jane@example.com", "client")
	require.NoError(t, err)

	w := doRequest(r, "/open", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}
