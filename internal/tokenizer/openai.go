package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

var errNilEncoder = errors.New("nil tiktoken encoder")

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errNilEncoder
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}

func (counter openAICounter) TruncateString(input string, limit int) (string, bool, error) {
	if counter.encoding == nil {
		return "", false, errNilEncoder
	}
	if limit <= 0 {
		return input, false, nil
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	if len(tokenIDs) <= limit {
		return input, false, nil
	}
	return counter.encoding.Decode(tokenIDs[:limit]), true, nil
}
