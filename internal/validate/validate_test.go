// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"testing"
)

func TestValidator_Accumulates(t *testing.T) {
	v := New()
	v.NotEmpty("source.path", "  ")
	v.OneOf("source.type", "CSV", []string{"jsonl", "sqlite"})
	v.NonNegative("limit", -1)
	v.Extension("grouping.extensions[0]", ".mp3")
	v.Distinct("export.path", "x", "store.path", "x")
	v.Custom("logLevel", "loud", func(any) error { return errors.New("unknown level") })

	if v.IsValid() {
		t.Fatal("expected validation errors")
	}
	if got := len(v.Errors()); got != 6 {
		t.Fatalf("errors = %d, want 6: %v", got, v.Err())
	}

	var ve ValidationError
	if !errors.As(v.Err(), &ve) {
		t.Fatalf("Err() is %T, want ValidationError", v.Err())
	}
	if ve.Errors()[0].Field != "source.path" {
		t.Errorf("first field = %q", ve.Errors()[0].Field)
	}
}

func TestValidator_Valid(t *testing.T) {
	v := New()
	v.NotEmpty("source.path", "stations.jsonl")
	v.OneOf("source.type", "SQLite", []string{"jsonl", "sqlite"})
	v.NonNegative("limit", 0)
	v.Extension("ext", "m3u8")
	v.Distinct("export.path", "", "store.path", "")

	if !v.IsValid() || v.Err() != nil {
		t.Fatalf("unexpected errors: %v", v.Err())
	}
}

func TestValidationError_Message(t *testing.T) {
	v := New()
	v.NonNegative("limit", -2)
	v.NonNegative("grouping.parallelism", -1)

	want := "validation failed for limit: value cannot be negative, got -2; " +
		"validation failed for grouping.parallelism: value cannot be negative, got -1"
	if got := v.Err().Error(); got != want {
		t.Errorf("Error() = %q\nwant %q", got, want)
	}
}
