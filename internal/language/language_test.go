package language

import (
	"reflect"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		code string
		name string
		ok   bool
	}{
		{"en", "English", true},
		{"hi", "Hindi", true},
		{"fr", "French", true},
		{"es", "Spanish", true},
		{"de", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			l, ok := Lookup(tt.code)
			if ok != tt.ok {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.ok)
			}
			if l.Name != tt.name {
				t.Errorf("Lookup(%q).Name = %q, want %q", tt.code, l.Name, tt.name)
			}
		})
	}
}

func TestCodes(t *testing.T) {
	want := []string{"en", "hi", "fr", "es"}
	if got := Codes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Codes() = %v, want %v", got, want)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "modified"

	if l, _ := Lookup("en"); l.Name != "English" {
		t.Error("language table was modified through All()")
	}
	if All()[0].Name != "English" {
		t.Error("All() did not return a copy")
	}
}

func TestResolve(t *testing.T) {
	l, err := Resolve("")
	if err != nil || l.Code != DefaultCode {
		t.Errorf("Resolve(\"\") = %v, %v; want default", l, err)
	}

	l, err = Resolve(" fr ")
	if err != nil || l.Name != "French" {
		t.Errorf("Resolve(\" fr \") = %v, %v", l, err)
	}

	_, err = Resolve("xx")
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
	if err.Error() != "language must be one of [en, hi, fr, es]" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestEveryLanguageHasEngineCodes(t *testing.T) {
	for _, l := range All() {
		if l.SynthesisCode == "" || l.Locale == "" || l.ESpeakVoice == "" || l.Name == "" {
			t.Errorf("language %q has an incomplete entry: %+v", l.Code, l)
		}
	}
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup did not panic on unknown code")
		}
	}()
	MustLookup("zz")
}
