// Package lsp serves calc diagnostics over the language server protocol.
// Every open, change and save re-parses the whole document and publishes
// the syntax errors found in it.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/dhamidi/grammarkit/diag"
	"github.com/dhamidi/grammarkit/genparse"
	"github.com/dhamidi/grammarkit/lang/calc"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "grammarkit"

const publishDiagnostics = "textDocument/publishDiagnostics"

var log = commonlog.GetLogger("grammarkit.lsp")

type Server struct {
	version string
	opts    []genparse.Option
	handler protocol.Handler
	server  *server.Server

	mu        sync.Mutex
	documents map[protocol.DocumentUri][]byte
}

// NewServer returns a server that parses documents with opts.
func NewServer(version string, opts ...genparse.Option) *Server {
	s := &Server{
		version:   version,
		opts:      opts,
		documents: make(map[protocol.DocumentUri][]byte),
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.update(ctx, params.TextDocument.URI, []byte(whole.Text))
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
	ctx.Notify(publishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	if params.Text != nil {
		s.update(ctx, uri, []byte(*params.Text))
		return nil
	}
	s.mu.Lock()
	src, ok := s.documents[uri]
	s.mu.Unlock()
	if ok {
		s.update(ctx, uri, src)
	}
	return nil
}

func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, src []byte) {
	s.mu.Lock()
	s.documents[uri] = src
	s.mu.Unlock()

	diags, err := s.diagnose(uri, src)
	if err != nil {
		log.Errorf("%s: %v", uri, err)
	}
	ctx.Notify(publishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// diagnose parses src and converts its syntax errors. A parse that was
// aborted is reported as a single diagnostic at the start of the document.
func (s *Server) diagnose(uri protocol.DocumentUri, src []byte) ([]protocol.Diagnostic, error) {
	res, err := calc.Parse(uriToPath(uri), src, s.opts...)
	if err != nil {
		return []protocol.Diagnostic{newDiagnostic(protocol.Range{}, err.Error())}, err
	}
	diags := make([]protocol.Diagnostic, 0, len(res.Diagnostics))
	lines := strings.Split(string(src), "\n")
	for _, d := range res.Diagnostics {
		diags = append(diags, newDiagnostic(toRange(lines, d), d.Message))
	}
	return diags, nil
}

func newDiagnostic(r protocol.Range, message string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range:    r,
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// toRange converts a diagnostic span to a protocol range. Protocol
// positions are zero based and count UTF-16 code units.
func toRange(lines []string, d diag.Diagnostic) protocol.Range {
	return protocol.Range{
		Start: toPosition(lines, d.Span.Start.Line, d.Span.Start.Column),
		End:   toPosition(lines, d.Span.End.Line, d.Span.End.Column),
	}
}

func toPosition(lines []string, line, column int) protocol.Position {
	if line < 1 {
		return protocol.Position{}
	}
	character := column - 1
	if line <= len(lines) {
		character = utf16Column(lines[line-1], column-1)
	}
	return protocol.Position{
		Line:      protocol.UInteger(line - 1),
		Character: protocol.UInteger(max(character, 0)),
	}
}

// utf16Column returns the number of UTF-16 code units in the first n bytes
// of line.
func utf16Column(line string, n int) int {
	if n > len(line) {
		return len(utf16.Encode([]rune(line))) + n - len(line)
	}
	return len(utf16.Encode([]rune(line[:n])))
}

func uriToPath(uri protocol.DocumentUri) string {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err == nil {
			return filepath.Clean(parsed.Path)
		}
	}
	return uri
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
