package tokenizer

import (
	"errors"
	"strings"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func (testCounter) TruncateString(input string, limit int) (string, bool, error) {
	runes := []rune(input)
	if limit <= 0 || len(runes) <= limit {
		return input, false, nil
	}
	return string(runes[:limit]), true, nil
}

func TestMeasureText(t *testing.T) {
	measurement, err := Measure(testCounter{}, "héllo")
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}
	if !measurement.Counted || measurement.Tokens != 5 || measurement.Bytes != 6 {
		t.Fatalf("unexpected measurement %+v", measurement)
	}
}

func TestMeasureBinaryCountsBytesOnly(t *testing.T) {
	measurement, err := Measure(testCounter{}, string([]byte{0x00, 0x01, 0x02}))
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}
	if measurement.Counted || measurement.Bytes != 3 {
		t.Fatalf("expected a byte-only measurement, got %+v", measurement)
	}
}

func TestMeasureRequiresCounter(t *testing.T) {
	if _, err := Measure(nil, "text"); !errors.Is(err, ErrNilCounter) {
		t.Fatalf("expected ErrNilCounter, got %v", err)
	}
}

func TestNewCounterDefault(t *testing.T) {
	counter, model, err := NewCounter(Config{Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if counter == nil {
		t.Fatalf("expected non-nil counter")
	}
	if model != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %q", model)
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}

func TestNewCounterUnknownModelFallsBack(t *testing.T) {
	_, model, err := NewCounter(Config{Model: "gemini-2.5-flash"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if model != defaultEncodingName {
		t.Fatalf("expected fallback encoding %s, got %q", defaultEncodingName, model)
	}
}

func TestTruncateString(t *testing.T) {
	counter, _, err := NewCounter(Config{})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	input := strings.Repeat("function f(x: number): string {}\n", 200)
	truncated, cut, err := counter.TruncateString(input, 16)
	if err != nil {
		t.Fatalf("TruncateString error: %v", err)
	}
	if !cut {
		t.Fatalf("expected input to be truncated")
	}
	if !strings.HasPrefix(input, truncated) {
		t.Fatalf("expected truncated text to be a prefix of the input")
	}
	tokens, _ := counter.CountString(truncated)
	if tokens > 16 {
		t.Fatalf("expected at most 16 tokens, got %d", tokens)
	}

	untouched, cut, err := counter.TruncateString("short", 16)
	if err != nil || cut || untouched != "short" {
		t.Fatalf("expected short input to pass through, got %q cut=%v err=%v", untouched, cut, err)
	}
}
