package util

import "testing"

type innerT struct {
	X int `json:"x"`
}

type outerT struct {
	Name  string `json:"name"`
	Inner innerT `json:"inner"`
}

func TestCheckJSONRejectsUnknownKey(t *testing.T) {
	var e ErrorLogger
	doc := []byte(`{"name":"a","inner":{"x":1,"typo":2}}`)
	CheckJSON[outerT](doc, &e)
	if !e.HaveErrors() {
		t.Fatal("expected an error for unknown key \"typo\"")
	}
}

func TestCheckJSONAcceptsValid(t *testing.T) {
	var e ErrorLogger
	doc := []byte(`{"name":"a","inner":{"x":1}}`)
	CheckJSON[outerT](doc, &e)
	if e.HaveErrors() {
		t.Fatalf("unexpected errors: %v", e.Errors())
	}
}

func TestUnmarshalJSONBytesSyntaxError(t *testing.T) {
	var v outerT
	err := UnmarshalJSONBytes([]byte(`{"name":`), &v)
	if err == nil {
		t.Fatal("expected an error")
	}
}
