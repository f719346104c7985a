package numeric

import (
	"encoding/json"
	"testing"
)

func TestLenient(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1000", "1000"},
		{"12.5", "12.5"},
		{"-3.75", "-3.75"},
		{" 42 ", "42"},
		{"", "0"},
		{"abc", "0"},
		{"12abc", "0"},
		{"null", "0"},
	}
	for _, c := range cases {
		if got := Lenient(c.in).String(); got != c.want {
			t.Errorf("Lenient(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestUnmarshalLeniency(t *testing.T) {
	var v struct {
		Amount Amount `json:"amount"`
	}
	cases := []struct {
		body string
		want string
	}{
		{`{"amount": 1000}`, "1000"},
		{`{"amount": 12.5}`, "12.5"},
		{`{"amount": "250"}`, "250"},
		{`{"amount": "oops"}`, "0"},
		{`{"amount": null}`, "0"},
		{`{"amount": true}`, "0"},
		{`{"amount": [1]}`, "0"},
		{`{}`, "0"},
	}
	for _, c := range cases {
		v.Amount = MustParse("99") // prove the decode overwrites
		if c.body == `{}` {
			v.Amount = Amount{}
		}
		if err := json.Unmarshal([]byte(c.body), &v); err != nil {
			t.Fatalf("unmarshal %s: %v", c.body, err)
		}
		if got := v.Amount.String(); got != c.want {
			t.Errorf("unmarshal %s = %s, want %s", c.body, got, c.want)
		}
	}
}

func TestMarshalIsBareNumber(t *testing.T) {
	b, err := json.Marshal(map[string]Amount{"amount": MustParse("12.5")})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"amount":12.5}` {
		t.Fatalf("got %s", b)
	}
}

func TestArithmetic(t *testing.T) {
	a := MustParse("1000")
	p := MustParse("400")
	if got := a.Sub(p).String(); got != "600" {
		t.Fatalf("1000-400 = %s", got)
	}
	// overpayment stays negative, never clamped
	if got := p.Sub(a).String(); got != "-600" {
		t.Fatalf("400-1000 = %s", got)
	}
	if !Zero().IsZero() {
		t.Fatal("zero value not zero")
	}
	if !MustParse("1.0").Equal(MustParse("1")) {
		t.Fatal("1.0 != 1")
	}
}
