package eth_test

import (
	"math/big"
	"testing"

	"github.com/vigneshbunny/crypto-pay/eth"
)

func TestToBase(t *testing.T) {
	cases := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"1", 6, "1000000"},
		{"1.1", 6, "1100000"},
		{"0.000001", 6, "1"},
		{"8.9", 6, "8900000"},
		{"10", 6, "10000000"},
		{"0", 6, "0"},
		{"0.5", 18, "500000000000000000"},
		{".5", 6, "500000"},
		{"123456789.123456", 6, "123456789123456"},
		{"-1.5", 6, "-1500000"},
	}

	for _, c := range cases {
		got, err := eth.ToBase(c.amount, c.decimals)
		if err != nil {
			t.Fatalf("ToBase(%q, %d): %v", c.amount, c.decimals, err)
		}
		if got.String() != c.want {
			t.Fatalf("ToBase(%q, %d): expected %s, got %s",
				c.amount, c.decimals, c.want, got)
		}
	}
}

func TestToBaseInvalid(t *testing.T) {
	for _, amount := range []string{
		"", ".", "abc", "1.2.3", "1,5", "0.0000001", "1e6", "--1",
	} {
		if _, err := eth.ToBase(amount, 6); err == nil {
			t.Errorf("ToBase(%q): expected error", amount)
		}
	}
}

func TestFromBase(t *testing.T) {
	cases := []struct {
		units    string
		decimals int
		want     string
	}{
		{"1100000", 6, "1.1"},
		{"1000000", 6, "1"},
		{"1", 6, "0.000001"},
		{"0", 6, "0"},
		{"500000000000000000", 18, "0.5"},
		{"-1500000", 6, "-1.5"},
		{"42", 0, "42"},
	}

	for _, c := range cases {
		v, _ := new(big.Int).SetString(c.units, 10)
		if got := eth.FromBase(v, c.decimals); got != c.want {
			t.Fatalf("FromBase(%s, %d): expected %q, got %q",
				c.units, c.decimals, c.want, got)
		}
	}

	if got := eth.FromBase(nil, 6); got != "0" {
		t.Fatalf("FromBase(nil): expected 0, got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, amount := range []string{"1.1", "0.000001", "12345.6789", "0"} {
		units, err := eth.ToBase(amount, 6)
		if err != nil {
			t.Fatal(err)
		}
		if got := eth.FromBase(units, 6); got != amount {
			t.Fatalf("round trip %q: got %q", amount, got)
		}
	}
}

func TestFee(t *testing.T) {
	scalar := &eth.Fee{Amount: "1.1"}
	if scalar.String() != "1.1" || scalar.UpperBound() != "1.1" {
		t.Fatalf("scalar fee: %q / %q", scalar.String(), scalar.UpperBound())
	}

	ranged := &eth.Fee{Amount: "13.8", Max: "30"}
	if ranged.String() != "13.8~30" {
		t.Fatalf("ranged fee string: %q", ranged.String())
	}
	if ranged.UpperBound() != "30" {
		t.Fatalf("ranged fee upper bound: %q", ranged.UpperBound())
	}
}
