package clipboard

import (
	"errors"
	"testing"
)

func TestCopierFuncForwardsText(t *testing.T) {
	var received string
	copier := CopierFunc(func(text string) error {
		received = text
		return nil
	})
	if err := copier.Copy("outline"); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if received != "outline" {
		t.Fatalf("received %q, want %q", received, "outline")
	}
}

func TestCopierFuncPropagatesErrors(t *testing.T) {
	expected := errors.New("denied")
	copier := CopierFunc(func(string) error { return expected })
	if err := copier.Copy("outline"); !errors.Is(err, expected) {
		t.Fatalf("Copy error = %v, want %v", err, expected)
	}
}
