package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/smithy-go/logging"

	"github.com/truora/minisql/dynamo"
	"github.com/truora/minisql/interpreter"
)

// TargetHeader names the operation of an HTTP request
const TargetHeader = "X-Minisql-Target"

// Handler implements http.Handler for the JSON API.
type Handler struct {
	interpreter interpreter.Interpreter
	logger      logging.Logger
}

// NewHandler creates an HTTP handler exposing the parser, a nil logger
// discards the logs
func NewHandler(cfg Config, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop{}
	}

	return &Handler{
		interpreter: &interpreter.SQL{Debug: cfg.Debug, MaxDepth: cfg.MaxDepth, Logger: logger},
		logger:      logger,
	}
}

// ServeHTTP dispatches requests based on X-Minisql-Target.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	defer func() {
		err := r.Body.Close()
		if err != nil {
			h.logger.Logf(logging.Warn, "error closing body: %v", err)
		}
	}()

	op := ""

	target := r.Header.Get(TargetHeader)
	if target != "" {
		parts := strings.Split(target, ".")
		op = parts[len(parts)-1]
	}

	var input StatementInput

	switch op {
	case "Parse", "Tokenize", "Lower":
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "unsupported operation", http.StatusBadRequest)
		return
	}

	var (
		resp interface{}
		err  error
	)

	switch op {
	case "Parse":
		resp, err = h.parse(input.Statement)
	case "Tokenize":
		resp, err = h.tokenize(input.Statement)
	case "Lower":
		resp, err = h.lower(input.Statement)
	}

	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) parse(input string) (*ParseOutput, error) {
	stmt, err := h.interpreter.Parse(input)
	if err != nil {
		return nil, err
	}

	return &ParseOutput{Kind: stmt.TokenLiteral(), Statement: stmt.String()}, nil
}

func (h *Handler) tokenize(input string) (*TokenizeOutput, error) {
	tokens, err := h.interpreter.Tokenize(input)
	if err != nil {
		return nil, err
	}

	output := &TokenizeOutput{Tokens: make([]TokenOutput, 0, len(tokens))}
	for _, tok := range tokens {
		output.Tokens = append(output.Tokens, TokenOutput{Type: string(tok.Type), Literal: tok.Literal, Pos: tok.Pos})
	}

	return output, nil
}

func (h *Handler) lower(input string) (*LowerOutput, error) {
	stmt, err := h.interpreter.Parse(input)
	if err != nil {
		return nil, err
	}

	req, err := dynamo.Lower(stmt)
	if err != nil {
		return nil, err
	}

	body, err := req.MarshalJSON()
	if err != nil {
		return nil, err
	}

	return &LowerOutput{Operation: string(req.Operation), Target: req.Target(), Input: body}, nil
}

func writeError(w http.ResponseWriter, err error) {
	type errorBody struct {
		Type    string `json:"__type"`
		Message string `json:"message"`
	}

	code := http.StatusBadRequest
	msg := err.Error()
	typ := "InternalFailure"

	var apiErr interface {
		ErrorCode() string
		ErrorMessage() string
	}

	if errors.As(err, &apiErr) {
		typ = apiErr.ErrorCode()
		msg = apiErr.ErrorMessage()
	} else {
		code = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{Type: typ, Message: msg})
}
