package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/go-subword/internal/server"
	"github.com/example/go-subword/internal/tokenizer"
)

// stubSegmenter implements server.Segmenter for tests.
type stubSegmenter struct {
	pieces []tokenizer.EncodedPiece
}

func (s *stubSegmenter) Encode(string) []tokenizer.EncodedPiece { return s.pieces }

func newTestHandler(models map[string]server.Segmenter) http.Handler {
	return server.NewHandler(models)
}

// ---------------------------------------------------------------------------
// GET /health
// ---------------------------------------------------------------------------

func TestHealth_Returns200WithStatusOK(t *testing.T) {
	h := newTestHandler(map[string]server.Segmenter{"unigram": &stubSegmenter{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("want status=ok, got %q", body["status"])
	}
	if _, ok := body["version"]; !ok {
		t.Error("want version field in response")
	}
}

// ---------------------------------------------------------------------------
// POST /encode
// ---------------------------------------------------------------------------

func TestEncode_ReturnsMissingBodyAs400(t *testing.T) {
	h := newTestHandler(map[string]server.Segmenter{"unigram": &stubSegmenter{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/encode", nil)
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestEncode_ReturnsEmptyTextAs400(t *testing.T) {
	h := newTestHandler(map[string]server.Segmenter{"unigram": &stubSegmenter{}})

	body := bytes.NewBufferString(`{"text":"","model":"unigram"}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/encode", body)
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestEncode_ReturnsPiecesOnSuccess(t *testing.T) {
	pieces := []tokenizer.EncodedPiece{{Piece: "ab", ID: 3}, {Piece: "cd", ID: 4}}
	h := newTestHandler(map[string]server.Segmenter{"bpe": &stubSegmenter{pieces: pieces}})

	body := bytes.NewBufferString(`{"text":"abcd","model":"bpe"}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/encode", body)
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("want Content-Type application/json, got %q", ct)
	}

	var resp struct {
		Pieces []struct {
			Piece string `json:"piece"`
			ID    int    `json:"id"`
		} `json:"pieces"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Pieces) != 2 || resp.Pieces[0].Piece != "ab" || resp.Pieces[1].Piece != "cd" {
		t.Errorf("unexpected pieces: %+v", resp.Pieces)
	}
}

func TestEncode_DefaultsModelWhenOnlyOneConfigured(t *testing.T) {
	pieces := []tokenizer.EncodedPiece{{Piece: "x", ID: 1}}
	h := newTestHandler(map[string]server.Segmenter{"unigram": &stubSegmenter{pieces: pieces}})

	body := bytes.NewBufferString(`{"text":"x"}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/encode", body)
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestEncode_AmbiguousModelReturns400(t *testing.T) {
	h := newTestHandler(map[string]server.Segmenter{
		"unigram": &stubSegmenter{},
		"bpe":     &stubSegmenter{},
	})

	body := bytes.NewBufferString(`{"text":"x"}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/encode", body)
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestEncode_UnknownModelReturns400(t *testing.T) {
	h := newTestHandler(map[string]server.Segmenter{"unigram": &stubSegmenter{}})

	body := bytes.NewBufferString(`{"text":"x","model":"wordpiece"}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/encode", body)
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestEncode_TextOverMaxSizeReturns413(t *testing.T) {
	h := server.NewHandler(
		map[string]server.Segmenter{"unigram": &stubSegmenter{}},
		server.WithMaxTextBytes(4),
	)

	body := bytes.NewBufferString(`{"text":"too long","model":"unigram"}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/encode", body)
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413, got %d", rec.Code)
	}
}

func TestEncode_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(map[string]server.Segmenter{"unigram": &stubSegmenter{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/encode", nil)
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", rec.Code)
	}
}
