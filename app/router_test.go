package app_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pagebin/html-api/app"
	"pagebin/html-api/internal"
	"pagebin/html-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("HOST_CORS", "http://localhost:5173")
	os.Exit(m.Run())
}

func newServer(t *testing.T) (*gin.Engine, *internal.Deps) {
	t.Helper()

	viper.Set("db.driver", "sqlite")
	viper.Set("db.dsn", filepath.Join(t.TempDir(), "test.db"))
	viper.Set("jwt.secret", "test-secret")
	viper.Set("upload.max_size", int64(1<<20))
	viper.Set("upload.max_urls", int64(10))
	viper.Set("security.rate_limit", 1000)
	viper.Set("mail.enabled", false)
	viper.Set("host.ssl.enabled", false)
	viper.Set("host.domain", "localhost")

	d, err := app.NewDeps()
	require.NoError(t, err)

	return app.NewRouter(d), d
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func doUpload(t *testing.T, router *gin.Engine, filename string, content []byte, customURL string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)

	if customURL != "" {
		require.NoError(t, w.WriteField("url", customURL))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

// liveCode digs the issued code straight out of the database, which
// is where the mailer would have read it from
func liveCode(t *testing.T, d *internal.Deps, email, purpose string) string {
	t.Helper()

	var rec model.VerificationCode
	err := d.DB.
		Where("email = ? AND purpose = ?", email, purpose).
		First(&rec).
		Error
	require.NoError(t, err)

	return rec.Code
}

// signUp registers, verifies and logs in a user, returning the
// session cookies
func signUp(t *testing.T, router *gin.Engine, d *internal.Deps, email, password string) []*http.Cookie {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/users", gin.H{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	code := liveCode(t, d, email, model.PurposeEmailVerify)

	w = doJSON(t, router, http.MethodPost, "/api/users/verify", gin.H{
		"email": email,
		"code":  code,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/users/login", gin.H{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return w.Result().Cookies()
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	router, d := newServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/users", gin.H{
		"email":    "a@x.com",
		"password": "secret12",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reg struct {
		UserID   string `json:"userID"`
		Verified bool   `json:"verified"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.UserID)
	assert.False(t, reg.Verified)

	// Duplicate registration is a conflict
	w = doJSON(t, router, http.MethodPost, "/api/users", gin.H{
		"email":    "a@x.com",
		"password": "secret12",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong code first
	w = doJSON(t, router, http.MethodPost, "/api/users/verify", gin.H{
		"email": "a@x.com",
		"code":  "definitely-wrong",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	code := liveCode(t, d, "a@x.com", model.PurposeEmailVerify)
	w = doJSON(t, router, http.MethodPost, "/api/users/verify", gin.H{
		"email": "a@x.com",
		"code":  code,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Replay fails, the code is gone
	w = doJSON(t, router, http.MethodPost, "/api/users/verify", gin.H{
		"email": "a@x.com",
		"code":  code,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/users/login", gin.H{
		"email":    "a@x.com",
		"password": "secret12",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Verified bool `json:"verified"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.True(t, login.Verified)

	w = doJSON(t, router, http.MethodPost, "/api/users/login", gin.H{
		"email":    "a@x.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadServeAndViews(t *testing.T) {
	router, d := newServer(t)
	cookies := signUp(t, router, d, "a@x.com", "secret12")

	content := []byte("<!DOCTYPE html><html><body>mine</body></html>")

	w := doUpload(t, router, "index.html", content, "", cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var up struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
	require.Len(t, up.URL, 6)

	// Serving returns the exact bytes and counts the first view
	req := httptest.NewRequest(http.MethodGet, "/api/files/"+up.URL, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.Bytes())
	assert.Equal(t, "1", rec.Header().Get("X-Views"))

	req = httptest.NewRequest(http.MethodGet, "/api/files/"+up.URL+"/views", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"views":1`)

	// Unknown URLs answer with 0 instead of 404
	req = httptest.NewRequest(http.MethodGet, "/api/files/zz99zz/views", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"views":0`)

	// Uploads need a session
	w = doUpload(t, router, "index.html", content, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// report.txt is not an HTML document
	w = doUpload(t, router, "report.txt", content, "", cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadCustomURL(t *testing.T) {
	router, d := newServer(t)
	cookies := signUp(t, router, d, "a@x.com", "secret12")
	other := signUp(t, router, d, "b@x.com", "secret12")

	w := doUpload(t, router, "page.html", []byte("<p>1</p>"), "mypage", cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Same URL again is a conflict, even for another account
	w = doUpload(t, router, "other.html", []byte("<p>2</p>"), "mypage", other)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doUpload(t, router, "page.html", []byte("<p>x</p>"), "Bad_URL", cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOverHTTP(t *testing.T) {
	router, d := newServer(t)
	cookies := signUp(t, router, d, "a@x.com", "secret12")
	other := signUp(t, router, d, "b@x.com", "secret12")

	w := doUpload(t, router, "v1.html", []byte("<p>v1</p>"), "mypage", cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	patch := func(cookies []*http.Cookie, url, filename string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPatch, "/api/files/"+url, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		for _, c := range cookies {
			req.AddCookie(c)
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := patch(other, "mypage", "v2.html", []byte("<p>v2</p>"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = patch(cookies, "zz99zz", "v2.html", []byte("<p>v2</p>"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = patch(cookies, "mypage", "v2.html", []byte("<p>v2</p>"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/files/mypage", nil)
	out := httptest.NewRecorder()
	router.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, []byte("<p>v2</p>"), out.Body.Bytes())
}

func TestDeleteRemovesContentAndViews(t *testing.T) {
	router, d := newServer(t)
	cookies := signUp(t, router, d, "a@x.com", "secret12")
	other := signUp(t, router, d, "b@x.com", "secret12")

	w := doUpload(t, router, "page.html", []byte("<p>x</p>"), "mypage", cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/files/mypage", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Only the owner may delete
	req = httptest.NewRequest(http.MethodDelete, "/api/files/mypage", nil)
	for _, c := range other {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/files/mypage", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/files/mypage", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	count, err := d.Views.Count("mypage")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestQuotaOverHTTP(t *testing.T) {
	router, d := newServer(t)
	cookies := signUp(t, router, d, "a@x.com", "secret12")

	for i := range 10 {
		w := doUpload(t, router, fmt.Sprintf("page%d.html", i), []byte("<p>x</p>"), "", cookies)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := doUpload(t, router, "eleventh.html", []byte("<p>x</p>"), "", cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	router, d := newServer(t)
	signUp(t, router, d, "a@x.com", "oldpass123")

	w := doJSON(t, router, http.MethodPost, "/api/users/reset", gin.H{
		"email": "a@x.com",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Unknown accounts can't request resets
	w = doJSON(t, router, http.MethodPost, "/api/users/reset", gin.H{
		"email": "nobody@x.com",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	code := liveCode(t, d, "a@x.com", model.PurposePasswordReset)

	w = doJSON(t, router, http.MethodPut, "/api/users/reset", gin.H{
		"email":    "a@x.com",
		"code":     code,
		"password": "newpass123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/users/login", gin.H{
		"email":    "a@x.com",
		"password": "oldpass123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/users/login", gin.H{
		"email":    "a@x.com",
		"password": "newpass123",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestResendVerification(t *testing.T) {
	router, d := newServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/users", gin.H{
		"email":    "a@x.com",
		"password": "secret12",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	first := liveCode(t, d, "a@x.com", model.PurposeEmailVerify)

	w = doJSON(t, router, http.MethodPost, "/api/users/verify/resend", gin.H{
		"email": "a@x.com",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The first code was replaced
	w = doJSON(t, router, http.MethodPost, "/api/users/verify", gin.H{
		"email": "a@x.com",
		"code":  first,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	second := liveCode(t, d, "a@x.com", model.PurposeEmailVerify)
	w = doJSON(t, router, http.MethodPost, "/api/users/verify", gin.H{
		"email": "a@x.com",
		"code":  second,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Verified accounts can't ask for another code
	w = doJSON(t, router, http.MethodPost, "/api/users/verify/resend", gin.H{
		"email": "a@x.com",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	router, d := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/validate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := signUp(t, router, d, "a@x.com", "secret12")

	req = httptest.NewRequest(http.MethodGet, "/api/validate", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateRejections(t *testing.T) {
	router, d := newServer(t)

	reject := func(cookies []*http.Cookie, wantErr string) {
		t.Helper()

		req := httptest.NewRequest(http.MethodGet, "/api/validate", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), wantErr)
	}

	// Login hands out cookies before verification, but the session is
	// useless until the account is verified
	w := doJSON(t, router, http.MethodPost, "/api/users", gin.H{
		"email":    "a@x.com",
		"password": "secret12",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/users/login", gin.H{
		"email":    "a@x.com",
		"password": "secret12",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reject(w.Result().Cookies(), "account_not_verified")

	// A token signed with the wrong key never gets through
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "whoever",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, err := forged.SignedString([]byte("not-the-server-secret"))
	require.NoError(t, err)
	reject([]*http.Cookie{{Name: "auth_token", Value: tokenStr}}, "token_invalid")

	// Neither does a valid token whose account is gone
	cookies := signUp(t, router, d, "b@x.com", "secret12")
	require.NoError(t, d.DB.Where("email = ?", "b@x.com").Delete(model.User{}).Error)
	reject(cookies, "user_not_found")
}
