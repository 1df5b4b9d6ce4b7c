// Package gsvc exposes gramlex's grammar registry over HTTP: registering and
// fetching named grammar documents, and parsing lines against a registered
// grammar. It is the chi-routed counterpart to a direct, in-process use of
// package gramconfig and package store.
package gsvc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/gramlex/gsvc/result"
	"github.com/dekarrin/gramlex/store"
	"github.com/dekarrin/rosed"
)

// PathPrefix is the prefix every route in this package is mounted under.
const PathPrefix = "/api/v1"

// API holds the dependencies gsvc's handlers need and a shared API token
// used to protect the mutating routes.
type API struct {
	// Store is the backing grammar registry.
	Store store.Store

	// TokenHash is the bcrypt hash of the shared API secret callers must
	// present to POST /token in exchange for a JWT. Parsing and fetching
	// grammars are unauthenticated; registering or deleting one requires a
	// JWT obtained this way.
	TokenHash []byte

	// Secret signs and validates the JWTs issued by POST /token.
	Secret []byte

	// UnauthDelay is how long a request pauses before a 401, 403, or 500
	// response is written, to deprioritize such requests from processing
	// and I/O the way a failed login should not be answered instantly.
	UnauthDelay time.Duration
}

// EndpointFunc is the shape every gsvc handler is written against; Endpoint
// adapts one into a http.HandlerFunc.
type EndpointFunc func(req *http.Request) result.Result

func Endpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		if r.Status == 0 {
			logHTTPResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			newResp := result.Err(r.Status, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
			newResp.WriteResponse(w)
			return
		}

		if r.IsErr {
			logHTTPResponse("ERROR", req, r.Status, r.InternalMsg)
		} else {
			logHTTPResponse("INFO", req, r.Status, r.InternalMsg)
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
	}
}

// panicTo500 recovers any panic a handler raises and turns it into an
// HTTP-500. The stack trace goes to the server log only; the response body
// is the panic value wrapped to a terminal-friendly width with rosed, the
// same way gerr.ConstructionError.HumanSummary formats a rejected grammar,
// so a caller never sees a raw, unwrapped Go panic string.
func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		log.Printf("ERROR panic while handling %s %s: %v\n%s", req.Method, req.URL.Path, panicErr, string(debug.Stack()))
		result.TextErr(
			http.StatusInternalServerError,
			rosed.Edit(fmt.Sprintf("An internal server error occurred: %v", panicErr)).Wrap(72).String(),
			"panic: %v", panicErr,
		).WriteResponse(w)
	}
}

// logHTTPResponse writes one line to the server log for a completed
// request. When the route carries a grammar name path parameter (every
// route under /grammars/{name} does), it is included so a grammar's
// registration, parsing, and deletion traffic can be grepped out of the
// log by name.
func logHTTPResponse(level string, req *http.Request, respStatus int, msg string) {
	for len(level) < 5 {
		level += " "
	}
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]

	line := fmt.Sprintf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, respStatus, msg)
	if name := chi.URLParam(req, "name"); name != "" {
		line = fmt.Sprintf("%s (grammar=%s)", line, name)
	}
	log.Print(line)
}

// parseJSON decodes req's body into v, which must be a pointer.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}
	return nil
}

// HashToken bcrypt-hashes a plaintext shared API token for use as
// API.TokenHash, the way server/tunas hashes user passwords.
func HashToken(plaintext string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 14)
	if err != nil {
		return nil, fmt.Errorf("hash token: %w", err)
	}
	return hash, nil
}
