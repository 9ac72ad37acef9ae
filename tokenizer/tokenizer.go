package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedModel indicates a model type other than unigram.
var ErrUnsupportedModel = errors.New("tokenizer: unsupported model type")

// unkPenalty is subtracted from the lowest piece score to score unknown
// characters.
const unkPenalty = 10

// Tokenizer implements SentencePiece Unigram tokenization.
// It is safe for concurrent use.
type Tokenizer struct {
	pieces    map[string]int32   // token string -> SentencePiece index
	scores    map[string]float32 // token string -> log probability
	idToPiece []string           // SentencePiece index -> token string

	unkID    int32
	unkScore float32

	maxTokenLen int // in runes
}

// Token is one piece of encoded text.
type Token struct {
	ID    int32
	Piece string
	Start int // rune offset in normalized text
	End   int // rune offset in normalized text
}

// New loads a tokenizer from a SentencePiece .model file.
func New(modelPath string) (*Tokenizer, error) {
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	return NewFromModel(model)
}

// NewFromModel builds a tokenizer from a decoded model. Control, unused and
// byte pieces never match input text.
func NewFromModel(model *Model) (*Tokenizer, error) {
	if model.ModelType != Unigram {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedModel, model.ModelType)
	}

	t := &Tokenizer{
		pieces:    make(map[string]int32, len(model.Pieces)),
		scores:    make(map[string]float32, len(model.Pieces)),
		idToPiece: make([]string, len(model.Pieces)),
		unkID:     -1,
	}

	minScore := float32(0)
	for i, piece := range model.Pieces {
		t.idToPiece[i] = piece.Piece

		switch piece.Type {
		case TypeUnknown:
			t.unkID = int32(i)
			continue
		case TypeControl, TypeUnused, TypeByte:
			continue
		}

		t.pieces[piece.Piece] = int32(i)
		t.scores[piece.Piece] = piece.Score
		minScore = min(minScore, piece.Score)
		t.maxTokenLen = max(t.maxTokenLen, utf8.RuneCountInString(piece.Piece))
	}
	if t.unkID < 0 {
		return nil, fmt.Errorf("%w: no unknown piece", ErrInvalidModel)
	}
	t.unkScore = minScore - unkPenalty

	return t, nil
}

// Close releases tokenizer resources.
func (t *Tokenizer) Close() error {
	return nil
}

// VocabSize returns the number of pieces in the model.
func (t *Tokenizer) VocabSize() int {
	return len(t.idToPiece)
}

// UnkID returns the unknown token ID.
func (t *Tokenizer) UnkID() int32 { return t.unkID }

// IDToPiece returns the piece for a token ID, or "" when out of range.
func (t *Tokenizer) IDToPiece(id int32) string {
	if id < 0 || int(id) >= len(t.idToPiece) {
		return ""
	}
	return t.idToPiece[id]
}

// Pieces returns the surface pieces of text, as SentencePiece's
// EncodeAsPieces does.
func (t *Tokenizer) Pieces(text string) []string {
	tokens := t.Encode(text)
	pieces := make([]string, len(tokens))
	for i, tok := range tokens {
		pieces[i] = tok.Piece
	}
	return pieces
}

// Decode joins pieces back into text.
func Decode(pieces []string) string {
	s := strings.ReplaceAll(strings.Join(pieces, ""), string(sentencePieceSpace), " ")
	return strings.TrimPrefix(s, " ")
}
