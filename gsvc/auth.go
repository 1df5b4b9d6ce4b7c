package gsvc

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/gramlex/gsvc/result"
)

var (
	errNoAuthHeader    = errors.New("no authorization header present")
	errNotBearerFormat = errors.New("authorization header not in Bearer format")
)

// TokenRequest is the JSON body of POST /token.
type TokenRequest struct {
	Secret string `json:"secret"`
}

// TokenResponse is the JSON body returned from POST /token.
type TokenResponse struct {
	Token string `json:"token"`
}

// HTTPCreateToken returns a HandlerFunc that exchanges the shared API
// secret for a signed, short-lived JWT, the way server/tunas exchanges a
// username/password for one. There being only one caller identity, the
// secret itself plays the role a username/password pair plays there.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	var body TokenRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if err := bcrypt.CompareHashAndPassword(api.TokenHash, []byte(body.Secret)); err != nil {
		return result.Unauthorized("", "secret does not match: %s", err.Error())
	}

	tok, err := generateJWT(api.Secret)
	if err != nil {
		return result.InternalServerError("could not generate JWT: %s", err.Error())
	}

	return result.Created(TokenResponse{Token: tok}, "new API token issued")
}

func generateJWT(secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"iss": "gramlex-gsvc",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

func validateJWT(tokStr string, secret []byte) error {
	_, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("gramlex-gsvc"), jwt.WithLeeway(time.Minute))
	return err
}

// RequireToken wraps next with middleware that rejects any request not
// bearing a JWT issued by HTTPCreateToken, in the
// "Authorization: Bearer <token>" header.
func RequireToken(secret []byte, unauthDelay time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := getBearerToken(req)
		if err != nil {
			time.Sleep(unauthDelay)
			result.Unauthorized("", err.Error()).WriteResponse(w)
			return
		}

		if err := validateJWT(tok, secret); err != nil {
			time.Sleep(unauthDelay)
			result.Unauthorized("", fmt.Sprintf("invalid token: %s", err.Error())).WriteResponse(w)
			return
		}

		next.ServeHTTP(w, req)
	})
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", errNoAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", errNotBearerFormat
	}

	scheme := strings.TrimSpace(strings.ToLower(parts[0]))
	token := strings.TrimSpace(parts[1])
	if scheme != "bearer" {
		return "", errNotBearerFormat
	}

	return token, nil
}
