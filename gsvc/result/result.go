// Package result contains response values used to write out gsvc API
// responses.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dekarrin/gramlex/gerr"
)

// ErrorResponse is the JSON body written for any Result constructed with Err.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// GrammarRejected returns a Result for a submitted grammar document that
// failed to build. The caller-facing message is err's wrapped,
// terminal-width HumanSummary rather than its raw, unwrapped Error()
// string, the way cmd/gramlex prints construction failures.
func GrammarRejected(err *gerr.ConstructionError) Result {
	return BadRequest(err.HumanSummary(), "grammar rejected: %s", err.Error())
}

// LexFailure returns a Result for a line that could not be tokenized at
// all, distinct from a BadRequest in that the request itself was
// well-formed JSON; it was the grammar-domain input (the line) that gramlex
// rejected.
func LexFailure(err *gerr.LexError) Result {
	return Err(http.StatusUnprocessableEntity, err.Error(), "line could not be lexed: %s", err.Error())
}

// RenderParseErrors renders every furthest-progress gerr.ParseError in errs,
// in the order gramlex.Outcome reported them, for embedding in a response
// body. A parse failure is not itself an HTTP error: the line was lexed and
// evaluated successfully, it simply did not match the grammar, so callers
// embed this in the successful body of a parse request rather than in an
// Err Result.
func RenderParseErrors(errs []*gerr.ParseError) []string {
	rendered := make([]string, 0, len(errs))
	for _, pe := range errs {
		if pe != nil {
			rendered = append(rendered, pe.Render())
		}
	}
	return rendered
}

// OK returns a Result containing an HTTP-200 along with a more detailed
// message (if desired; if none is provided it defaults to a generic one)
// that is not displayed to the caller.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	internalMsgFmt := "OK"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Response(http.StatusOK, respObj, internalMsgFmt, msgArgs...)
}

// NoContent returns a Result containing an HTTP-204.
func NoContent(internalMsg ...interface{}) Result {
	internalMsgFmt := "no content"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Response(http.StatusNoContent, nil, internalMsgFmt, msgArgs...)
}

// Created returns a Result containing an HTTP-201.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	internalMsgFmt := "created"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Response(http.StatusCreated, respObj, internalMsgFmt, msgArgs...)
}

// Conflict returns a Result containing an HTTP-409.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	internalMsgFmt := "conflict"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Err(http.StatusConflict, userMsg, internalMsgFmt, msgArgs...)
}

// BadRequest returns a Result containing an HTTP-400.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	internalMsgFmt := "bad request"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Err(http.StatusBadRequest, userMsg, internalMsgFmt, msgArgs...)
}

// MethodNotAllowed returns a Result containing an HTTP-405.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	internalMsgFmt := "method not allowed"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)

	return Err(http.StatusMethodNotAllowed, userMsg, internalMsgFmt, msgArgs...)
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	internalMsgFmt := "not found"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Err(http.StatusNotFound, "The requested resource was not found", internalMsgFmt, msgArgs...)
}

// Forbidden returns a Result containing an HTTP-403.
func Forbidden(internalMsg ...interface{}) Result {
	internalMsgFmt := "forbidden"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Err(http.StatusForbidden, "You don't have permission to do that", internalMsgFmt, msgArgs...)
}

// Unauthorized returns a Result containing an HTTP-401 along with the
// WWW-Authenticate header expected of a bearer-token API.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	internalMsgFmt := "unauthorized"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, userMsg, internalMsgFmt, msgArgs...).
		WithHeader("WWW-Authenticate", `Bearer realm="gramlex grammar service"`)
}

// InternalServerError returns a Result containing an HTTP-500.
func InternalServerError(internalMsg ...interface{}) Result {
	internalMsgFmt := "internal server error"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Err(http.StatusInternalServerError, "An internal server error occurred", internalMsgFmt, msgArgs...)
}

// Response builds a successful, JSON-encoded Result. If status is
// http.StatusNoContent, respObj is not read and may be nil.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	msg := fmt.Sprintf(internalMsg, v...)
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: msg,
		resp:        respObj,
	}
}

// Err builds an error Result whose body is an ErrorResponse wrapping userMsg.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	msg := fmt.Sprintf(internalMsg, v...)
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: msg,
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// TextErr is like Err but writes the body as plain text instead of JSON.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	msg := fmt.Sprintf(internalMsg, v...)
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: msg,
		resp:        userMsg,
	}
}

// Result is the return value of a gsvc endpoint handler. Build one with OK,
// Created, NotFound, etc. and let the Endpoint adapter call WriteResponse.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp          interface{}
	hdrs          [][2]string
	respJSONBytes []byte
}

// WithHeader returns a copy of r with the given header queued for writing.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	return cp
}

// PrepareMarshaledResponse marshals r's body to JSON ahead of time so that
// WriteResponse cannot itself fail partway through writing headers. Calling
// it more than once is a no-op.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}
	if r.IsJSON && r.Status != http.StatusNoContent {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteResponse writes r's headers, status, and body to w. r must have been
// built by one of this package's constructors; an unpopulated Result panics.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte
	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		respBytes = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if r.Status != http.StatusNoContent {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}

	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}

	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}
