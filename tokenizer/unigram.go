package tokenizer

const negInf = -1e9

// EncodeIDs returns the token IDs for the input text.
func (t *Tokenizer) EncodeIDs(text string) []int32 {
	tokens := t.Encode(text)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
	}
	return ids
}

// Encode tokenizes text using Viterbi algorithm. Consecutive unknown
// characters are returned as one token with the unknown ID.
func (t *Tokenizer) Encode(text string) []Token {
	if text == "" {
		return nil
	}

	normalized := normalize(text)
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	n := len(runes)

	// best[i] = best log probability to tokenize runes[0:i]
	best := make([]float64, n+1)
	// parent[i] = start position of the token ending at position i
	parent := make([]int, n+1)
	// tokenAt[i] = the token string ending at position i
	tokenAt := make([]string, n+1)

	for i := 1; i <= n; i++ {
		best[i] = negInf
		parent[i] = -1
	}

	for i := 1; i <= n; i++ {
		maxLen := min(t.maxTokenLen, i)

		for length := 1; length <= maxLen; length++ {
			j := i - length
			substr := string(runes[j:i])

			score, exists := t.scores[substr]
			if !exists {
				continue
			}

			candidate := best[j] + float64(score)
			if candidate > best[i] {
				best[i] = candidate
				parent[i] = j
				tokenAt[i] = substr
			}
		}

		// No piece ends here: the character is unknown.
		if best[i] == negInf {
			best[i] = best[i-1] + float64(t.unkScore)
			parent[i] = i - 1
			tokenAt[i] = string(runes[i-1 : i])
		}
	}

	var tokens []Token
	pos := n
	for pos > 0 {
		start := parent[pos]
		piece := tokenAt[pos]

		id, ok := t.pieces[piece]
		if !ok {
			id = t.unkID
		}

		if last := len(tokens) - 1; id == t.unkID && last >= 0 && tokens[last].ID == t.unkID {
			tokens[last].Piece = piece + tokens[last].Piece
			tokens[last].Start = start
		} else {
			tokens = append(tokens, Token{ID: id, Piece: piece, Start: start, End: pos})
		}
		pos = start
	}

	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}

	return tokens
}
