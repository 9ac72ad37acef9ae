package tokenizer

import (
	"errors"
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrInvalidModel indicates model bytes that are not a SentencePiece model.
var ErrInvalidModel = errors.New("tokenizer: invalid model")

// PieceType mirrors SentencePiece's ModelProto.SentencePiece.Type.
type PieceType int32

// Piece types.
const (
	TypeNormal      PieceType = 1
	TypeUnknown     PieceType = 2
	TypeControl     PieceType = 3
	TypeUserDefined PieceType = 4
	TypeUnused      PieceType = 5
	TypeByte        PieceType = 6
)

// ModelType mirrors SentencePiece's TrainerSpec.ModelType.
type ModelType int32

// Model types.
const (
	Unigram ModelType = 1
	BPE     ModelType = 2
	Word    ModelType = 3
	Char    ModelType = 4
)

// Piece represents a vocabulary piece from the model.
type Piece struct {
	Piece string
	Score float32
	Type  PieceType
}

// Model represents a loaded SentencePiece model.
type Model struct {
	Pieces    []Piece
	ModelType ModelType
}

// Field numbers from sentencepiece_model.proto.
const (
	fieldModelPieces      protowire.Number = 1
	fieldModelTrainerSpec protowire.Number = 2

	fieldPiecePiece protowire.Number = 1
	fieldPieceScore protowire.Number = 2
	fieldPieceType  protowire.Number = 3

	fieldTrainerModelType protowire.Number = 3
)

// LoadModel loads a SentencePiece model from a .model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return ParseModel(data)
}

// ParseModel decodes a serialized ModelProto. Only the vocabulary and the
// model type are read; normalizer rules are not.
func ParseModel(data []byte) (*Model, error) {
	m := &Model{ModelType: Unigram}
	err := eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldModelPieces && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			p, err := parsePiece(v)
			if err != nil {
				return 0, fmt.Errorf("piece %d: %w", len(m.Pieces), err)
			}
			m.Pieces = append(m.Pieces, p)
			return n, nil
		case num == fieldModelTrainerSpec && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			mt, err := parseModelType(v)
			if err != nil {
				return 0, fmt.Errorf("trainer spec: %w", err)
			}
			m.ModelType = mt
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
	if err != nil {
		return nil, err
	}
	if len(m.Pieces) == 0 {
		return nil, fmt.Errorf("%w: no pieces", ErrInvalidModel)
	}
	return m, nil
}

func parsePiece(data []byte) (Piece, error) {
	p := Piece{Type: TypeNormal}
	err := eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldPiecePiece && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			p.Piece = v
			return n, nil
		case num == fieldPieceScore && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			p.Score = math.Float32frombits(v)
			return n, nil
		case num == fieldPieceType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			p.Type = PieceType(v)
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
	return p, err
}

func parseModelType(data []byte) (ModelType, error) {
	mt := Unigram
	err := eachField(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == fieldTrainerModelType && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			mt = ModelType(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return mt, err
}

// eachField walks the fields of a message. fn receives the bytes following
// the tag and returns how many of them the value used, or a negative
// protowire error code.
func eachField(data []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrInvalidModel, protowire.ParseError(n))
		}
		data = data[n:]

		n, err := fn(num, typ, data)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %w", ErrInvalidModel, num, protowire.ParseError(n))
		}
		data = data[n:]
	}
	return nil
}
