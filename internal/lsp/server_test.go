package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"loupe/internal/analysis"
	"loupe/internal/minilang"
)

const squareSrc = "fun square(x: Int): Int {\n  return x * x\n}\n"

func testFactory(path string, content []byte) (*analysis.Session, error) {
	return analysis.NewSession(path, content, nil, minilang.NewFrontend(nil), nil, nil)
}

func frame(t *testing.T, buf *bytes.Buffer, msg any) {
	t.Helper()
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if err := writeMessage(buf, payload); err != nil {
		t.Fatal(err)
	}
}

func request(t *testing.T, buf *bytes.Buffer, id int, method string, params any) {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatal(err)
	}
	frame(t, buf, map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  json.RawMessage(raw),
	})
}

func notify(t *testing.T, buf *bytes.Buffer, method string, params any) {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatal(err)
	}
	frame(t, buf, map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  json.RawMessage(raw),
	})
}

func readResponses(t *testing.T, out *bytes.Buffer) map[string]rpcMessage {
	t.Helper()
	responses := make(map[string]rpcMessage)
	reader := bufio.NewReader(out)
	for {
		payload, err := readMessage(reader)
		if err != nil {
			break
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("bad response: %v", err)
		}
		if len(msg.ID) > 0 {
			responses[string(msg.ID)] = msg
		}
	}
	return responses
}

func runSession(t *testing.T, build func(in *bytes.Buffer, uri string)) map[string]rpcMessage {
	t.Helper()
	uri := pathToURI("/tmp/square.mini")

	var in, out bytes.Buffer
	request(t, &in, 1, "initialize", initializeParams{})
	notify(t, &in, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, LanguageID: "minilang", Version: 1, Text: squareSrc},
	})
	build(&in, uri)
	request(t, &in, 99, "shutdown", nil)
	notify(t, &in, "exit", nil)

	server := NewServer(&in, &out, ServerOptions{Factory: testFactory})
	err := server.Run(context.Background())
	if !errors.Is(err, ErrExit) {
		t.Fatalf("Run: %v, want ErrExit", err)
	}
	return readResponses(t, &out)
}

func TestHoverOnParameterUse(t *testing.T) {
	responses := runSession(t, func(in *bytes.Buffer, uri string) {
		request(t, in, 2, "textDocument/hover", hoverParams{
			TextDocument: textDocumentIdentifier{URI: uri},
			Position:     position{Line: 1, Character: 9},
		})
	})

	msg, ok := responses["2"]
	if !ok {
		t.Fatal("no hover response")
	}
	var h hover
	if err := json.Unmarshal(msg.Result, &h); err != nil {
		t.Fatalf("hover result: %v", err)
	}
	if !strings.Contains(h.Contents.Value, "param x: Int") {
		t.Errorf("hover missing signature: %q", h.Contents.Value)
	}
	if !strings.Contains(h.Contents.Value, "Type: `Int`") {
		t.Errorf("hover missing type: %q", h.Contents.Value)
	}
}

func TestHoverAfterEditMisses(t *testing.T) {
	responses := runSession(t, func(in *bytes.Buffer, uri string) {
		// Превращаем второй x в xx и наводим на него.
		notify(t, in, "textDocument/didChange", didChangeTextDocumentParams{
			TextDocument: versionedTextDocumentIdentifier{URI: uri, Version: 2},
			ContentChanges: []textDocumentContentChangeEvent{{
				Range: &lspRange{
					Start: position{Line: 1, Character: 14},
					End:   position{Line: 1, Character: 14},
				},
				Text: "x",
			}},
		})
		request(t, in, 3, "textDocument/hover", hoverParams{
			TextDocument: textDocumentIdentifier{URI: uri},
			Position:     position{Line: 1, Character: 13},
		})
	})

	msg, ok := responses["3"]
	if !ok {
		t.Fatal("no hover response")
	}
	if string(msg.Result) != "null" {
		t.Errorf("hover on unresolved identifier = %s, want null", msg.Result)
	}
}

func TestDefinitionResolvesParameter(t *testing.T) {
	responses := runSession(t, func(in *bytes.Buffer, uri string) {
		request(t, in, 4, "textDocument/definition", definitionParams{
			TextDocument: textDocumentIdentifier{URI: uri},
			Position:     position{Line: 1, Character: 9},
		})
	})

	msg, ok := responses["4"]
	if !ok {
		t.Fatal("no definition response")
	}
	var loc location
	if err := json.Unmarshal(msg.Result, &loc); err != nil {
		t.Fatalf("definition result: %v", err)
	}
	declCol := strings.Index("fun square(x: Int): Int {", "x: Int")
	want := lspRange{
		Start: position{Line: 0, Character: declCol},
		End:   position{Line: 0, Character: declCol + 1},
	}
	if loc.Range != want {
		t.Errorf("definition range = %+v, want %+v", loc.Range, want)
	}
}

func TestUnknownMethodErrors(t *testing.T) {
	responses := runSession(t, func(in *bytes.Buffer, uri string) {
		request(t, in, 5, "textDocument/rename", map[string]any{})
	})
	msg, ok := responses["5"]
	if !ok {
		t.Fatal("no response for unknown method")
	}
	if msg.Error == nil || msg.Error.Code != -32601 {
		t.Errorf("error = %+v, want method-not-found", msg.Error)
	}
}

func TestExitWithoutShutdown(t *testing.T) {
	var in, out bytes.Buffer
	notify(t, &in, "exit", nil)
	server := NewServer(&in, &out, ServerOptions{Factory: testFactory})
	if err := server.Run(context.Background()); !errors.Is(err, ErrExitWithoutShutdown) {
		t.Fatalf("Run: %v, want ErrExitWithoutShutdown", err)
	}
}
