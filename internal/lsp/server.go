package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"loupe/internal/analysis"
	"loupe/internal/minilang"
	"loupe/internal/sitter"
	"loupe/internal/source"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// SessionFactory builds an analysis session for a newly opened document.
type SessionFactory func(path string, content []byte) (*analysis.Session, error)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Factory  SessionFactory
	Debounce time.Duration
	Trace    analysis.Tracef
}

// Server handles stdio JSON-RPC for the loupe language server. Each open
// document owns one analysis session; edits update the session's live
// overlay immediately, and a debounced full re-analysis follows.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	mu        sync.Mutex
	docs      map[string]*document
	lastTimer *time.Timer

	workspaceRoot     string
	shutdownRequested bool
	traceLSP          bool

	factory  SessionFactory
	debounce time.Duration
	trace    analysis.Tracef
	baseCtx  context.Context
}

type document struct {
	path    string
	live    []byte
	version int
	session *analysis.Session
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	factory := opts.Factory
	if factory == nil {
		factory = DefaultSessionFactory(nil)
	}
	return &Server{
		in:       bufio.NewReader(in),
		out:      bufio.NewWriter(out),
		docs:     make(map[string]*document),
		factory:  factory,
		debounce: debounce,
		trace:    opts.Trace,
	}
}

// DefaultSessionFactory picks the frontend by file extension: the builtin
// minilang checker for `.mini`, a tree-sitter syntax-only provider for
// recognized mainstream languages. Companion `.mini` files from the same
// directory feed cross-file name resolution.
func DefaultSessionFactory(trace analysis.Tracef) SessionFactory {
	return func(path string, content []byte) (*analysis.Session, error) {
		if strings.EqualFold(filepath.Ext(path), ".mini") {
			sources := loadCompanions(path)
			fe := minilang.NewFrontend(nil)
			return analysis.NewSession(path, content, sources, fe, nil, trace)
		}
		provider, err := sitter.ForPath(path)
		if err != nil {
			return nil, err
		}
		return analysis.NewSession(path, content, nil, provider, nil, trace)
	}
}

func loadCompanions(path string) *source.FileSet {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	sources := source.NewFileSet()
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".mini") {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		if full == path {
			continue
		}
		if _, err := sources.Load(full); err != nil {
			continue
		}
	}
	if sources.Len() == 0 {
		return nil
	}
	return sources
}

// Run serves LSP requests until shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			HoverProvider:      true,
			DefinitionProvider: true,
		},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.docs = make(map[string]*document)
	s.mu.Unlock()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	var settings lspSettings
	if err := json.Unmarshal(params.Settings, &settings); err != nil {
		return nil
	}
	if settings.Loupe.LSP.Trace != nil {
		s.mu.Lock()
		s.traceLSP = *settings.Loupe.LSP.Trace
		s.mu.Unlock()
	}
	return nil
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	path := uriToPath(uri)
	if path == "" {
		return nil
	}
	content := []byte(params.TextDocument.Text)
	session, err := s.factory(path, content)
	if err != nil {
		s.logf("didOpen %s: %v", path, err)
		return nil
	}
	s.mu.Lock()
	s.docs[uri] = &document{
		path:    path,
		live:    content,
		version: params.TextDocument.Version,
		session: session,
	}
	s.mu.Unlock()
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	doc.live = applyChanges(doc.live, params.ContentChanges)
	doc.version = params.TextDocument.Version
	live := doc.live
	session := doc.session
	trace := s.traceLSP
	s.mu.Unlock()

	if trace {
		s.logf("didChange: uri=%s version=%d len=%d", uri, params.TextDocument.Version, len(live))
	}
	if err := session.Update(s.ctx(), live); err != nil {
		s.logf("overlay update: %v", err)
	}
	s.scheduleReanalyze(session)
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if ok && params.Text != nil {
		doc.live = []byte(*params.Text)
	}
	var session *analysis.Session
	var live []byte
	if ok {
		session = doc.session
		live = doc.live
	}
	s.mu.Unlock()
	if session == nil {
		return nil
	}
	if err := session.Update(s.ctx(), live); err != nil {
		s.logf("overlay update: %v", err)
	}
	if err := session.Reanalyze(s.ctx()); err != nil {
		s.logf("reanalyze %s: %v", uri, err)
	}
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

// scheduleReanalyze debounces the full pass so fast typing does not queue a
// re-check per keystroke.
func (s *Server) scheduleReanalyze(session *analysis.Session) {
	s.mu.Lock()
	if s.lastTimer != nil {
		s.lastTimer.Stop()
	}
	s.lastTimer = time.AfterFunc(s.debounce, func() {
		if err := session.Reanalyze(s.ctx()); err != nil {
			s.logf("reanalyze: %v", err)
		}
	})
	s.mu.Unlock()
}

func (s *Server) document(uri string) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[uri]
}

func (s *Server) ctx() context.Context {
	if s.baseCtx != nil {
		return s.baseCtx
	}
	return context.Background()
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}
