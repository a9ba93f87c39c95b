package tokenizer

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting a byte slice.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for the provided data using counter. Data that
// is not valid UTF-8 or contains NUL bytes is reported as not counted.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, err := counter.CountString(string(data))
	if err != nil {
		return CountResult{}, err
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

// CountTexts sums the token counts of every text. Texts that cannot be
// counted contribute nothing.
func CountTexts(counter Counter, texts []string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	total := 0
	for _, text := range texts {
		result, err := CountBytes(counter, []byte(text))
		if err != nil {
			return 0, err
		}
		total += result.Tokens
	}
	return total, nil
}
