package model

import (
	"reflect"
	"testing"
)

func TestStringArrayValue(t *testing.T) {
	cases := []struct {
		in   StringArray
		want interface{}
	}{
		{nil, nil},
		{StringArray{}, "{}"},
		{StringArray{"work", "deep"}, `{"work","deep"}`},
		{StringArray{`say "hi"`}, `{"say \"hi\""}`},
		{StringArray{`back\slash`}, `{"back\\slash"}`},
	}
	for _, tc := range cases {
		got, err := tc.in.Value()
		if err != nil {
			t.Errorf("Value(%v) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Value(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestStringArrayScan(t *testing.T) {
	cases := []struct {
		in   string
		want StringArray
	}{
		{"{}", StringArray{}},
		{"{work,deep}", StringArray{"work", "deep"}},
		{`{"with space","comma, inside"}`, StringArray{"with space", "comma, inside"}},
		{`{"quoted \"word\""}`, StringArray{`quoted "word"`}},
		{`{"NULL"}`, StringArray{"NULL"}}, // quoted NULL is a literal string
		{"{NULL}", StringArray{""}},
	}
	for _, tc := range cases {
		var a StringArray
		if err := a.Scan(tc.in); err != nil {
			t.Errorf("Scan(%q) failed: %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(a, tc.want) {
			t.Errorf("Scan(%q) = %#v, want %#v", tc.in, a, tc.want)
		}
	}
}

func TestStringArrayScanNil(t *testing.T) {
	a := StringArray{"stale"}
	if err := a.Scan(nil); err != nil {
		t.Fatalf("scan nil failed: %v", err)
	}
	if a != nil {
		t.Fatalf("scan nil should clear the slice, got %v", a)
	}
}

func TestStringArrayScanMalformed(t *testing.T) {
	for _, in := range []string{"work,deep", `{"unterminated}`} {
		var a StringArray
		if err := a.Scan(in); err == nil {
			t.Errorf("Scan(%q) should fail", in)
		}
	}
}
