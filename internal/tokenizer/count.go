package tokenizer

import (
	"errors"
	"unicode/utf8"

	"github.com/temirov/sigmap/internal/utils"
)

// ErrNilCounter is returned when a measurement is requested without a counter.
var ErrNilCounter = errors.New("tokenizer: nil counter")

// Measurement describes the size of a rendered document.
// Tokens is only meaningful when Counted is true.
type Measurement struct {
	Bytes   int
	Tokens  int
	Counted bool
}

// Measure reports the byte and token size of document. Documents that look
// binary or are not valid UTF-8 are measured in bytes only.
func Measure(counter Counter, document string) (Measurement, error) {
	if counter == nil {
		return Measurement{}, ErrNilCounter
	}
	measurement := Measurement{Bytes: len(document)}
	if !utf8.ValidString(document) || utils.IsBinary([]byte(document)) {
		return measurement, nil
	}
	tokens, countError := counter.CountString(document)
	if countError != nil {
		return measurement, countError
	}
	measurement.Tokens = tokens
	measurement.Counted = true
	return measurement, nil
}
