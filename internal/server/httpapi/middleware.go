package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/tasklist/internal/server/models"
	"github.com/dmitrijs2005/tasklist/internal/server/services"
)

type ctxKey string

const userKey ctxKey = "user"

// credentialsFrom extracts the credential material of a request. Both schemes
// may be present; precedence is decided by the identity resolver, not here.
// The basic-auth username field carries the account email.
func credentialsFrom(r *http.Request) services.Credentials {
	var creds services.Credentials

	authz := r.Header.Get("Authorization")
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			creds.Token = strings.TrimSpace(parts[1])
		}
	}

	if email, password, ok := r.BasicAuth(); ok {
		creds.Email = email
		creds.Password = password
	}

	return creds
}

// requireActiveUser resolves the request identity through the active-account
// gate and stores the user in the request context. Unauthenticated and
// inactive outcomes are mapped by writeError (401 and 403 respectively).
func (s *Server) requireActiveUser(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.users.ResolveActiveIdentity(r.Context(), credentialsFrom(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		h(w, r.WithContext(ctx))
	}
}

func userFrom(r *http.Request) *models.User {
	if v := r.Context().Value(userKey); v != nil {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
