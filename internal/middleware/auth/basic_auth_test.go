package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		configUser string
		configPass string
		user, pass string
		setAuth    bool
		status     int
	}{
		{"valid", "admin", "s3cret", "admin", "s3cret", true, http.StatusNoContent},
		{"wrong password", "admin", "s3cret", "admin", "nope", true, http.StatusUnauthorized},
		{"wrong user", "admin", "s3cret", "root", "s3cret", true, http.StatusUnauthorized},
		{"no header", "admin", "s3cret", "", "", false, http.StatusUnauthorized},
		{"unconfigured", "", "", "", "", true, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/admin/fai/PN-1", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rr := httptest.NewRecorder()

			BasicAuth(tt.configUser, tt.configPass)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusUnauthorized {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
