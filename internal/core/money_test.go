package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"0", "0.00", true},
		{".5", "0.50", true},
		{" 2.50 ", "2.50", true},
		{"-1", "", false},
		{"+1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("%q expected invalid input error, got %v", tc.in, err)
			}
		}
	}
}

func TestParseMoneyKeepsPrecision(t *testing.T) {
	m := MustParseMoney("10.005")
	if m.Decimal().String() != "10.005" {
		t.Fatalf("expected full precision, got %s", m.Decimal())
	}
	if m.Round2().String() != "10.01" {
		t.Fatalf("expected half-up rounding, got %s", m.Round2())
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := MoneyFromInt(100)
	b := MustParseMoney("30.5")

	if got := a.Sub(b); got.String() != "69.50" {
		t.Errorf("Sub = %s", got)
	}
	if got := a.Add(b); got.String() != "130.50" {
		t.Errorf("Add = %s", got)
	}
	if got := a.DivInt(0); !got.IsZero() {
		t.Errorf("DivInt(0) = %s, want 0", got)
	}
	if got := a.Ratio(Zero); !got.IsZero() {
		t.Errorf("Ratio(0) = %s, want 0", got)
	}
	if !b.Sub(a).IsNegative() {
		t.Errorf("expected negative difference")
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(MustParseMoney("12.345"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "12.345" {
		t.Fatalf("unexpected encoding %s", data)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"7.25"`), &m); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if m.String() != "7.25" {
		t.Fatalf("unexpected value %s", m)
	}
	if err := json.Unmarshal([]byte(`500`), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if !m.Equal(MoneyFromInt(500)) {
		t.Fatalf("unexpected value %s", m)
	}
}
