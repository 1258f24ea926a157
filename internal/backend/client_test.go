package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

// newTestClient starts a backend stub mounted under /api and returns a client for it.
func newTestClient(t *testing.T, tokens TokenSource, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.StripPrefix("/api", h))
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/api/", Tokens: tokens})
	require.NoError(t, err)
	return c
}

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, "http://localhost:9091/api/admin/user?id=7", c.Endpoint("/admin/user", map[string][]string{"id": {"7"}}))

	_, err = NewClient(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	jarred, err := NewClient(Config{CookieJar: true})
	require.NoError(t, err)
	assert.NotNil(t, jarred.hc.Jar)
}

func TestBearerTransport_AuthorizationHeader(t *testing.T) {
	var token atomic.Value
	token.Store("")
	var seen []string
	c := newTestClient(t, TokenFunc(func(context.Context) string { return token.Load().(string) }),
		func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.Header.Get("Authorization"))
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"id":"c1","name":"Acme"}}`)
		})
	companies := NewCompanyClient(c)

	_, err := companies.Get(context.Background())
	require.NoError(t, err)

	token.Store("abc123")
	_, err = companies.Get(context.Background())
	require.NoError(t, err)

	token.Store("")
	_, err = companies.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer abc123", ""}, seen, "token is read at request time")
}

func TestBearerTransport_DoesNotMutateRequest(t *testing.T) {
	var got string
	rt := &BearerTransport{
		Base: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			got = r.Header.Get("Authorization")
			return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody, Request: r}, nil
		}),
		Source: StaticToken("tok"),
	}
	req := httptest.NewRequest(http.MethodGet, "http://backend/x", nil)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "Bearer tok", got)
	assert.Empty(t, req.Header.Get("Authorization"))

	anon := httptest.NewRequest(http.MethodGet, "http://backend/x", nil).WithContext(Anonymous(context.Background()))
	resp, err = rt.RoundTrip(anon)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Empty(t, got)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   apperrors.ErrorCode
		msg    string
	}{
		{"success false", http.StatusOK, `{"success":false,"message":"plan limit reached"}`, apperrors.ErrCodeRejected, "plan limit reached"},
		{"unauthorized", http.StatusUnauthorized, `{"success":false,"message":"jwt expired"}`, apperrors.ErrCodeUnauthorized, "jwt expired"},
		{"not found", http.StatusNotFound, ``, apperrors.ErrCodeNotFound, "Not Found"},
		{"validation", http.StatusBadRequest, `{"error":"email taken"}`, apperrors.ErrCodeValidation, "email taken"},
		{"server error", http.StatusInternalServerError, `<html>oops</html>`, apperrors.ErrCodeInternal, "Internal Server Error"},
		{"bad json", http.StatusOK, `{"success":true,"data":`, apperrors.ErrCodeDecode, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, nil, func(w http.ResponseWriter, _ *http.Request) {
				writeEnvelope(w, tt.status, tt.body)
			})
			_, err := NewUserClient(c).Get(context.Background(), "u1")
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: base})
	require.NoError(t, err)
	_, err = NewUserClient(c).Get(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewUserClient(c).Get(ctx, "u1")
	assert.True(t, apperrors.IsCanceled(err))
}

func TestUserClient_List(t *testing.T) {
	var query string
	c := newTestClient(t, StaticToken("t"), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/user", r.URL.Path)
		query = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, `{
			"success": true,
			"data": [{"id":"1","name":"A"},{"id":"2","name":"B"},{"id":"3","name":"C"}],
			"pagination": {"currentPage": 2, "totalPages": 5, "total": 42, "limit": 10}
		}`)
	})

	q := pagination.Query{Page: 2, Limit: 10}.Set(FilterRole, "caregiver").Set(FilterActive, "true")
	page, err := NewUserClient(c).List(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "active=true&limit=10&page=2&role=caregiver", query)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "C", page.Items[2].Name)
	assert.Equal(t, pagination.Descriptor{CurrentPage: 2, TotalPages: 5, Total: 42, Limit: 10}, page.Descriptor)
	assert.True(t, page.Descriptor.HasPrev())
	assert.True(t, page.Descriptor.HasNext())
}

func TestCareHomeClient_ListSnakeCase(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":[{"id":"h1"}],
			"pagination":{"current_page":1,"total_pages":3,"total":25,"limit":10}}`)
	})
	page, err := NewCareHomeClient(c).List(context.Background(), pagination.Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Descriptor.TotalPages)
	assert.Equal(t, 25, page.Descriptor.Total)
}

func TestCareHomeClient_UpdateMultipart(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	c := newTestClient(t, StaticToken("t"), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/super/care-homes/h%201", r.URL.EscapedPath())
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Willow", r.FormValue("name"))
		assert.Equal(t, "51.5", r.FormValue("latitude"))
		assert.Equal(t, "-0.12", r.FormValue("longitude"))
		assert.Equal(t, "true", r.FormValue("active"))

		var settings model.CareHomeSettings
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("settings")), &settings))
		assert.Equal(t, 40, settings.Capacity)
		var contact model.ContactInfo
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("contactInfo")), &contact))
		assert.Equal(t, "front@willow.example", contact.Email)

		_, hdr, err := r.FormFile("logo")
		require.NoError(t, err)
		assert.Equal(t, "logo.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))

		writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"id":"h 1","name":"Willow"}}`)
	})

	home, err := NewCareHomeClient(c).Update(context.Background(), "h 1", model.UpdateCareHomeRequest{
		Name:        "Willow",
		Geolocation: model.Geolocation{Latitude: 51.5, Longitude: -0.12},
		Settings:    model.CareHomeSettings{Capacity: 40},
		ContactInfo: model.ContactInfo{Email: "front@willow.example"},
		Active:      true,
		Logo:        &model.FileUpload{Filename: "logo.png", Data: png},
	})
	require.NoError(t, err)
	assert.Equal(t, "Willow", home.Name)
}

func TestUserClient_CreateWithoutPicture(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "ada@example.com", r.FormValue("email"))
		assert.Empty(t, r.MultipartForm.File)
		writeEnvelope(w, http.StatusCreated, `{"success":true,"data":{"id":"u9","email":"ada@example.com"}}`)
	})
	u, err := NewUserClient(c).Create(context.Background(), model.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "longenough", Role: model.UserRoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "u9", u.ID)
}

func TestPlanClient_Scope(t *testing.T) {
	var paths []string
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"id":"p1"}}`)
	})
	plans := NewPlanClient(c)
	_, err := plans.Create(context.Background(), model.PlanScopeSuper, model.PlanRequest{Name: "Gold"})
	require.NoError(t, err)
	_, err = plans.Update(context.Background(), model.PlanScopeAdmin, "p1", model.PlanRequest{Name: "Gold"})
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /super/plans", "PUT /admin/plans/p1"}, paths)
}

func TestProfileClient_Paths(t *testing.T) {
	var paths []string
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"id":"r1","name":"Ruth","roomNumber":"4"}}`)
	})
	residents := NewProfileClient[model.Resident](c, model.ProfileResidents)
	res, err := residents.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "4", res.RoomNumber)
	_, err = residents.Update(context.Background(), "r1", model.ProfileUpdate{"roomNumber": "5"})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /admin/residents/r1", "PUT /admin/residents/r1"}, paths)
}

func TestAuthClient(t *testing.T) {
	c := newTestClient(t, StaticToken("should-not-be-sent"), func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/auth/login":
			var creds domainauth.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "ada@example.com", creds.Email)
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"token":"t1","refreshToken":"r1","userId":"u1","role":"admin"}}`)
		case "/auth/session":
			assert.Equal(t, "r1", r.Header.Get(RefreshTokenHeader))
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"token":"t2","refreshToken":"r1","userId":"u1"}}`)
		default:
			http.NotFound(w, r)
		}
	})
	auth := NewAuthClient(c)

	p, err := auth.Login(context.Background(), domainauth.Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "t1", p.AuthData().Token)
	assert.Equal(t, "admin", p.Role)

	s, err := auth.Session(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "t2", s.Token)
}

func TestMultipart_FileNameFallback(t *testing.T) {
	body, ctype, err := NewMultipart().File("picture", &model.FileUpload{Data: []byte("%PDF-1.4\n")}).Encode()
	require.NoError(t, err)
	assert.Contains(t, ctype, "multipart/form-data; boundary=")
	assert.Contains(t, body.String(), `filename="picture.pdf"`)
	assert.Contains(t, body.String(), "Content-Type: application/pdf")
	assert.Equal(t, "application/pdf", DetectContentType([]byte("%PDF-1.4\n")))

	_, _, err = NewMultipart().JSON("bad", make(chan int)).Encode()
	require.Error(t, err)
}
