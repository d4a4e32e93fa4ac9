package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments(" Umbrella = true , Rain=false,,")
	if err != nil {
		t.Fatalf("ParseAssignments failed: %v", err)
	}
	want := map[string]string{"Umbrella": "true", "Rain": "false"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseAssignments = %v, want %v", got, want)
	}

	empty, err := ParseAssignments("")
	if err != nil || len(empty) != 0 {
		t.Errorf("ParseAssignments(\"\") = %v, %v; want empty map", empty, err)
	}

	for _, bad := range []string{"Rain", "=true", "Rain=", "Rain=true,Rain=false"} {
		if _, err := ParseAssignments(bad); err == nil {
			t.Errorf("ParseAssignments(%q) should fail", bad)
		}
	}
	if _, err := ParseAssignments("A=1,A=2"); !errors.Is(err, ErrDuplicateVariable) {
		t.Errorf("expected ErrDuplicateVariable, got %v", err)
	}
}

func TestParseNames(t *testing.T) {
	got := ParseNames(" Rain, ,Umbrella ")
	want := []string{"Rain", "Umbrella"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseNames = %v, want %v", got, want)
	}
	if ParseNames("") != nil {
		t.Error("ParseNames(\"\") should be nil")
	}
}
