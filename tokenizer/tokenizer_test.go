package tokenizer

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// testPieces is a tiny unigram vocabulary in SentencePiece index order.
var testPieces = []Piece{
	{Piece: "<unk>", Type: TypeUnknown},
	{Piece: "<s>", Type: TypeControl},
	{Piece: "</s>", Type: TypeControl},
	{Piece: "▁", Score: -1, Type: TypeNormal},
	{Piece: "▁при", Score: -2},
	{Piece: "вет", Score: -2},
	{Piece: "▁привет", Score: -3},
	{Piece: "▁мир", Score: -2},
	{Piece: "м", Score: -4},
	{Piece: "и", Score: -4},
	{Piece: "р", Score: -4},
}

// encodeModel serializes pieces the way sentencepiece_model.proto does.
// Type is omitted for zero values so the NORMAL default applies.
func encodeModel(pieces []Piece, modelType ModelType) []byte {
	var b []byte
	for _, p := range pieces {
		var m []byte
		m = protowire.AppendTag(m, fieldPiecePiece, protowire.BytesType)
		m = protowire.AppendString(m, p.Piece)
		m = protowire.AppendTag(m, fieldPieceScore, protowire.Fixed32Type)
		m = protowire.AppendFixed32(m, math.Float32bits(p.Score))
		if p.Type != 0 {
			m = protowire.AppendTag(m, fieldPieceType, protowire.VarintType)
			m = protowire.AppendVarint(m, uint64(p.Type))
		}
		b = protowire.AppendTag(b, fieldModelPieces, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}

	var spec []byte
	spec = protowire.AppendTag(spec, fieldTrainerModelType, protowire.VarintType)
	spec = protowire.AppendVarint(spec, uint64(modelType))
	b = protowire.AppendTag(b, fieldModelTrainerSpec, protowire.BytesType)
	b = protowire.AppendBytes(b, spec)

	// An unrelated field (normalizer_spec) must be skipped.
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{})
	return b
}

func writeModel(t *testing.T, pieces []Piece, modelType ModelType) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sp.model")
	if err := os.WriteFile(path, encodeModel(pieces, modelType), 0o644); err != nil {
		t.Fatalf("writing model: %v", err)
	}
	return path
}

func newTestTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := New(writeModel(t, testPieces, Unigram))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if err := tok.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return tok
}

func TestLoadModel(t *testing.T) {
	model, err := LoadModel(writeModel(t, testPieces, Unigram))
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if len(model.Pieces) != len(testPieces) {
		t.Fatalf("expected %d pieces, got %d", len(testPieces), len(model.Pieces))
	}
	if model.ModelType != Unigram {
		t.Errorf("expected UNIGRAM model type, got %v", model.ModelType)
	}
	if got := model.Pieces[1]; got.Piece != "<s>" || got.Type != TypeControl {
		t.Errorf("piece[1] = %+v, want <s> CONTROL", got)
	}
	if got := model.Pieces[6]; got.Piece != "▁привет" || got.Score != -3 || got.Type != TypeNormal {
		t.Errorf("piece[6] = %+v, want ▁привет -3 NORMAL", got)
	}
}

func TestLoadModel_FileNotFound(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nonexistent.model"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestParseModel_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte{0xff, 0xff, 0xff}},
		{"truncated piece", encodeModel(testPieces, Unigram)[:5]},
		{"no pieces", nil},
		{"json", []byte(`{"model": "unigram"}`)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseModel(tc.data); !errors.Is(err, ErrInvalidModel) {
				t.Errorf("expected ErrInvalidModel, got %v", err)
			}
		})
	}
}

func TestNew_UnsupportedModel(t *testing.T) {
	_, err := New(writeModel(t, testPieces, BPE))
	if !errors.Is(err, ErrUnsupportedModel) {
		t.Errorf("expected ErrUnsupportedModel, got %v", err)
	}
}

func TestNew_NoUnknownPiece(t *testing.T) {
	_, err := NewFromModel(&Model{ModelType: Unigram, Pieces: testPieces[3:]})
	if !errors.Is(err, ErrInvalidModel) {
		t.Errorf("expected ErrInvalidModel, got %v", err)
	}
}

func TestTokenizer_Vocab(t *testing.T) {
	tok := newTestTokenizer(t)

	if tok.VocabSize() != len(testPieces) {
		t.Errorf("expected vocab size = %d, got %d", len(testPieces), tok.VocabSize())
	}
	if tok.UnkID() != 0 {
		t.Errorf("expected UNK ID = 0, got %d", tok.UnkID())
	}
	if got := tok.IDToPiece(7); got != "▁мир" {
		t.Errorf("IDToPiece(7) = %q", got)
	}
	if got := tok.IDToPiece(100); got != "" {
		t.Errorf("IDToPiece(100) = %q, want empty", got)
	}
}

func TestTokenizer_Pieces(t *testing.T) {
	tok := newTestTokenizer(t)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"best path", "привет мир", []string{"▁привет", "▁мир"}},
		{"extra spaces", "  мир   привет ", []string{"▁мир", "▁привет"}},
		{"unknown run merged", "привет 42", []string{"▁привет", "▁", "42"}},
		{"control pieces do not match", "<s>", []string{"▁", "<s>"}},
		{"single characters", "мри", []string{"▁", "м", "р", "и"}},
		{"empty", "", nil},
		{"whitespace only", " \t ", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tok.Pieces(tc.input)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Pieces(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestTokenizer_EncodeIDs(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.EncodeIDs("привет 42")
	if want := []int32{6, 3, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeIDs() = %v, want %v", got, want)
	}

	tokens := tok.Encode("привет 42")
	if last := tokens[len(tokens)-1]; last.Start != 8 || last.End != 10 {
		t.Errorf("unknown token offsets = [%d,%d), want [8,10)", last.Start, last.End)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	tok := newTestTokenizer(t)

	for _, text := range []string{"привет мир", "мир привет 42", "<s>"} {
		if got := Decode(tok.Pieces(text)); got != text {
			t.Errorf("Decode(Pieces(%q)) = %q", text, got)
		}
	}
}
