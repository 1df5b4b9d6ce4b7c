package gsvc

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dekarrin/gramlex/ast"
	"github.com/dekarrin/gramlex/gerr"
	"github.com/dekarrin/gramlex/gramconfig"
	"github.com/dekarrin/gramlex/gsvc/result"
	"github.com/dekarrin/gramlex/store"
)

// GrammarModel is the JSON representation of a registered grammar.
type GrammarModel struct {
	URI      string `json:"uri"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

// CreateGrammarRequest is the JSON body of POST /grammars.
type CreateGrammarRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

func toGrammarModel(g store.Grammar) GrammarModel {
	return GrammarModel{
		URI:      PathPrefix + "/grammars/" + g.Name,
		ID:       g.ID.String(),
		Name:     g.Name,
		Created:  g.Created.Format(time.RFC3339),
		Modified: g.Modified.Format(time.RFC3339),
	}
}

// HTTPGetAllGrammars returns a HandlerFunc that lists every registered
// grammar's metadata (never its source TOML).
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	grammars, err := api.Store.Grammars().GetAll(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(grammars))
	for i := range grammars {
		resp[i] = toGrammarModel(grammars[i])
	}
	return result.OK(resp, "got all grammars")
}

// HTTPCreateGrammar returns a HandlerFunc that registers a new named grammar
// from a TOML gramconfig document. Requires a valid bearer token.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	var body CreateGrammarRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if body.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if body.Source == "" {
		return result.BadRequest("source: property is empty or missing from request", "empty source")
	}

	// validate the document compiles into a usable grammar before it is
	// ever persisted, so a bad document never gets registered under a name.
	if _, err := gramconfig.Load([]byte(body.Source)); err != nil {
		var cerr *gerr.ConstructionError
		if errors.As(err, &cerr) {
			return result.GrammarRejected(cerr)
		}
		return result.BadRequest("source: "+err.Error(), "invalid grammar document: %s", err.Error())
	}

	created, err := api.Store.Grammars().Create(req.Context(), store.Grammar{
		Name:   body.Name,
		Source: body.Source,
	})
	if err != nil {
		if errors.Is(err, store.ErrConstraintViolation) {
			return result.Conflict("A grammar with that name already exists", "grammar '%s' already exists", body.Name)
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(toGrammarModel(created), "grammar '%s' registered", created.Name)
}

// HTTPGetGrammar returns a HandlerFunc that fetches one grammar's metadata
// by name.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	name := chi.URLParam(req, "name")

	g, err := api.Store.Grammars().GetByName(req.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return result.NotFound("grammar '%s' not found", name)
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(toGrammarModel(g), "got grammar '%s'", name)
}

// HTTPDeleteGrammar returns a HandlerFunc that removes a registered grammar
// by name. Requires a valid bearer token.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	name := chi.URLParam(req, "name")

	existing, err := api.Store.Grammars().GetByName(req.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return result.NotFound("grammar '%s' not found", name)
		}
		return result.InternalServerError(err.Error())
	}

	if _, err := api.Store.Grammars().Delete(req.Context(), existing.ID); err != nil {
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("grammar '%s' deleted", name)
}

// ParseLineRequest is the JSON body of POST /grammars/{name}/parse.
type ParseLineRequest struct {
	Line       string `json:"line"`
	LineNumber uint   `json:"line_number"`
}

// OutcomeModel is the JSON representation of one gramlex.Outcome.
type OutcomeModel struct {
	Success bool   `json:"success"`
	AST     string `json:"ast,omitempty"`
	NewPos  uint   `json:"new_pos"`
	Error   string `json:"error,omitempty"`
}

// ParseLineResponse is the JSON body returned from POST /grammars/{name}/parse.
type ParseLineResponse struct {
	Outcomes []OutcomeModel `json:"outcomes"`

	// Diagnostics collects every furthest-progress failure's rendered
	// message when none of Outcomes succeeded, so a caller that only wants
	// a summary does not have to walk Outcomes itself.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// HTTPParseLine returns a HandlerFunc that loads the named grammar, parses
// one line against it, and returns the resulting outcomes. Unauthenticated:
// parsing against an already-registered grammar performs no mutation.
func (api API) HTTPParseLine() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epParseLine)
}

func (api API) epParseLine(req *http.Request) result.Result {
	name := chi.URLParam(req, "name")

	g, err := api.Store.Grammars().GetByName(req.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return result.NotFound("grammar '%s' not found", name)
		}
		return result.InternalServerError(err.Error())
	}

	parser, err := gramconfig.Load([]byte(g.Source))
	if err != nil {
		return result.InternalServerError("stored grammar '%s' no longer compiles: %s", name, err.Error())
	}

	var body ParseLineRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.LineNumber == 0 {
		body.LineNumber = 1
	}

	outcomes, err := parser.ParseLine(body.Line, body.LineNumber)
	if err != nil {
		var lerr *gerr.LexError
		if errors.As(err, &lerr) {
			return result.LexFailure(lerr)
		}
		return result.BadRequest(err.Error(), "line %q could not be lexed: %s", body.Line, err.Error())
	}

	resp := ParseLineResponse{Outcomes: make([]OutcomeModel, len(outcomes))}
	parseErrs := make([]*gerr.ParseError, 0, len(outcomes))
	for i, o := range outcomes {
		m := OutcomeModel{Success: o.Success, NewPos: o.NewPos}
		if o.Success {
			m.AST = ast.Print(o.AST)
		} else if o.Err != nil {
			m.Error = o.Err.Render()
			parseErrs = append(parseErrs, o.Err)
		}
		resp.Outcomes[i] = m
	}
	if len(parseErrs) > 0 {
		resp.Diagnostics = result.RenderParseErrors(parseErrs)
	}

	return result.OK(resp, "parsed line against grammar '%s'", name)
}
