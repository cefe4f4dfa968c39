package auth

import (
	"chat-hub/errors"
	"net/http"
	"strings"
)

// tokenQueryParam is checked before the Authorization header because browser
// websocket clients cannot set custom headers on the upgrade request.
const tokenQueryParam = "access_token"

// BearerToken resolves the client token from an upgrade request.
// It returns ErrMissingToken when neither the query parameter nor the
// Authorization header carries one.
func BearerToken(r *http.Request) (string, error) {
	if token := r.URL.Query().Get(tokenQueryParam); token != "" {
		return token, nil
	}

	header := r.Header.Get("Authorization")
	if token := strings.TrimPrefix(header, "Bearer "); token != "" && token != header {
		return token, nil
	}

	return "", errors.ErrMissingToken
}
