package gsvc_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dekarrin/gramlex/gsvc"
	"github.com/dekarrin/gramlex/store/inmem"
)

const sumDoc = `
format = "GRAMLEX"
type = "GRAMMAR"
root = "sum"

drop = ["SPACE"]

[[token]]
id = "NUM"
pattern = "[0-9]+"

[[token]]
id = "PLUS"
pattern = "\\+"

[[token]]
id = "SPACE"
pattern = " +"

[def.sum]
kind = "and"
[def.sum.a]
kind = "token"
token = "NUM"
[def.sum.b]
kind = "and"
[def.sum.b.a]
kind = "mute"
[def.sum.b.a.a]
kind = "token"
token = "PLUS"
[def.sum.b.b]
kind = "token"
token = "NUM"
`

const testSecret = "s3cret"

func newTestAPI(t *testing.T) gsvc.API {
	t.Helper()
	hash, err := gsvc.HashToken(testSecret)
	require.NoError(t, err)
	return gsvc.API{
		Store:     inmem.NewDatastore(),
		TokenHash: hash,
		Secret:    []byte("test-signing-secret"),
	}
}

func doJSON(t *testing.T, h http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// fetchToken exchanges the test secret for a JWT good against router.
func fetchToken(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, gsvc.PathPrefix+"/token", "", gsvc.TokenRequest{Secret: testSecret})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp gsvc.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestCreateToken_RejectsWrongSecret(t *testing.T) {
	api := newTestAPI(t)
	router := gsvc.NewRouter(api)

	rec := doJSON(t, router, http.MethodPost, gsvc.PathPrefix+"/token", "", gsvc.TokenRequest{Secret: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateGrammar_RequiresToken(t *testing.T) {
	api := newTestAPI(t)
	router := gsvc.NewRouter(api)

	rec := doJSON(t, router, http.MethodPost, gsvc.PathPrefix+"/grammars", "", gsvc.CreateGrammarRequest{
		Name:   "sum",
		Source: sumDoc,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateGrammar_ThenParseLine(t *testing.T) {
	api := newTestAPI(t)
	router := gsvc.NewRouter(api)
	tok := fetchToken(t, router)

	rec := doJSON(t, router, http.MethodPost, gsvc.PathPrefix+"/grammars", tok, gsvc.CreateGrammarRequest{
		Name:   "sum",
		Source: sumDoc,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created gsvc.GrammarModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "sum", created.Name)

	rec = doJSON(t, router, http.MethodPost, gsvc.PathPrefix+"/grammars/sum/parse", "", gsvc.ParseLineRequest{
		Line: "1 + 2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var parsed gsvc.ParseLineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	require.Len(t, parsed.Outcomes, 1)
	require.True(t, parsed.Outcomes[0].Success)
}

func TestCreateGrammar_DuplicateNameConflicts(t *testing.T) {
	api := newTestAPI(t)
	router := gsvc.NewRouter(api)
	tok := fetchToken(t, router)

	body := gsvc.CreateGrammarRequest{Name: "sum", Source: sumDoc}
	rec := doJSON(t, router, http.MethodPost, gsvc.PathPrefix+"/grammars", tok, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, gsvc.PathPrefix+"/grammars", tok, body)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetGrammar_NotFound(t *testing.T) {
	api := newTestAPI(t)
	router := gsvc.NewRouter(api)

	rec := doJSON(t, router, http.MethodGet, gsvc.PathPrefix+"/grammars/missing", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteGrammar_RequiresToken(t *testing.T) {
	api := newTestAPI(t)
	router := gsvc.NewRouter(api)
	tok := fetchToken(t, router)

	rec := doJSON(t, router, http.MethodPost, gsvc.PathPrefix+"/grammars", tok, gsvc.CreateGrammarRequest{
		Name:   "sum",
		Source: sumDoc,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, gsvc.PathPrefix+"/grammars/sum", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, gsvc.PathPrefix+"/grammars/sum", tok, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
