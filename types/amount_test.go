package types

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestAmountConstructors(t *testing.T) {
	tests := []struct {
		name   string
		amount Amount
		wei    string
	}{
		{"Wei", Wei(1), "1"},
		{"Wei large", Wei(123456789), "123456789"},
		{"Gwei", Gwei(2), "2000000000"},
		{"Ether", Ether(1), "1000000000000000000"},
		{"Ether batch", Ether(3), "3000000000000000000"},
		{"Zero", Zero(), "0"},
		{"Zero value", Amount{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.String(); got != tt.wei {
				t.Errorf("String: got %s, want %s", got, tt.wei)
			}
		})
	}
}

func TestFromBig(t *testing.T) {
	tests := []struct {
		name    string
		in      *big.Int
		want    string
		wantErr bool
	}{
		{"Nil is zero", nil, "0", false},
		{"Positive", big.NewInt(42), "42", false},
		{"Zero", big.NewInt(0), "0", false},
		{"Negative rejected", big.NewInt(-1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromBig(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFromBigCopies(t *testing.T) {
	v := big.NewInt(100)
	a, err := FromBig(v)
	if err != nil {
		t.Fatalf("FromBig error: %v", err)
	}

	v.SetInt64(999)
	if a.String() != "100" {
		t.Errorf("Amount aliased caller's big.Int: got %s, want 100", a)
	}

	a.BigInt().SetInt64(777)
	if a.String() != "100" {
		t.Errorf("BigInt exposed internal value: got %s, want 100", a)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"Empty is zero", "", "0", false},
		{"Decimal", "123", "123", false},
		{"Whole ether", "1000000000000000000", "1000000000000000000", false},
		{"Beyond int64", "340282366920938463463374607431768211456", "340282366920938463463374607431768211456", false},
		{"Negative", "-1", "", true},
		{"Garbage", "abc", "", true},
		{"Hex rejected", "0x10", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for invalid input")
		}
	}()

	_ = MustParse("not-a-number")
}

func TestAmountArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Amount
		expected Amount
	}{
		{"Add", func() Amount { return Wei(100).Add(Wei(200)) }, Wei(300)},
		{"Add zero value", func() Amount { return Amount{}.Add(Wei(5)) }, Wei(5)},
		{"Sub", func() Amount { return Wei(500).Sub(Wei(200)) }, Wei(300)},
		{"Sub to zero", func() Amount { return Wei(100).Sub(Wei(100)) }, Zero()},
		{"Mul", func() Amount { return Wei(100).Mul(3) }, Wei(300)},
		{"Mul zero", func() Amount { return Ether(1).Mul(0) }, Zero()},
		{"Batch price", func() Amount { return Gwei(5).Mul(7) }, Gwei(35)},
		{"Chained", func() Amount {
			return Ether(1).Add(Gwei(500)).Sub(Gwei(500))
		}, Ether(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSubUnderflowPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for underflow")
		}
	}()

	_ = Wei(100).Sub(Wei(200))
}

func TestAmountComparison(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Amount
		less    bool
		atLeast bool
		equal   bool
	}{
		{"Equal", Wei(100), Wei(100), false, true, true},
		{"Less", Wei(50), Wei(100), true, false, false},
		{"Greater", Wei(200), Wei(100), false, true, false},
		{"Zero vs zero value", Zero(), Amount{}, false, true, true},
		{"Units", Gwei(1), Ether(1), true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.LessThan(tt.b); got != tt.less {
				t.Errorf("LessThan: got %v, want %v", got, tt.less)
			}
			if got := tt.a.AtLeast(tt.b); got != tt.atLeast {
				t.Errorf("AtLeast: got %v, want %v", got, tt.atLeast)
			}
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal: got %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestAmountPredicates(t *testing.T) {
	tests := []struct {
		name       string
		amount     Amount
		isZero     bool
		isPositive bool
	}{
		{"Zero", Zero(), true, false},
		{"Zero value", Amount{}, true, false},
		{"Positive", Wei(1), false, true},
		{"Large", Ether(1000000), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.IsZero(); got != tt.isZero {
				t.Errorf("IsZero: got %v, want %v", got, tt.isZero)
			}
			if got := tt.amount.IsPositive(); got != tt.isPositive {
				t.Errorf("IsPositive: got %v, want %v", got, tt.isPositive)
			}
		})
	}
}

func TestFormatEther(t *testing.T) {
	tests := []struct {
		amount   Amount
		expected string
	}{
		{Ether(1), "1"},
		{Ether(42), "42"},
		{Zero(), "0"},
		{Gwei(1_500_000_000), "1.5"},
		{Gwei(1), "0.000000001"},
		{Wei(1), "0.000000000000000001"},
		{Ether(2).Add(Gwei(250_000_000)), "2.25"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.amount.FormatEther(); got != tt.expected {
				t.Errorf("FormatEther: got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestAmountJSON(t *testing.T) {
	type payload struct {
		Price Amount `json:"price"`
	}

	data, err := json.Marshal(payload{Price: Gwei(3)})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	expected := `{"price":"3000000000"}`
	if string(data) != expected {
		t.Errorf("JSON: got %s, want %s", string(data), expected)
	}

	var out payload
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !out.Price.Equal(Gwei(3)) {
		t.Errorf("Round trip: got %s, want %s", out.Price, Gwei(3))
	}

	if err := json.Unmarshal([]byte(`{"price":"-5"}`), &out); err == nil {
		t.Error("Expected error for negative amount")
	}
}

func TestAmountSum(t *testing.T) {
	tests := []struct {
		name     string
		values   []Amount
		expected Amount
	}{
		{"Empty", []Amount{}, Zero()},
		{"Single", []Amount{Wei(100)}, Wei(100)},
		{"Multiple", []Amount{Wei(100), Wei(200), Wei(300)}, Wei(600)},
		{"Mixed units", []Amount{Ether(1), Gwei(1), Wei(1)}, MustParse("1000000001000000001")},
		{"All zero", []Amount{Zero(), Amount{}, Zero()}, Zero()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sum(tt.values...)
			if !result.Equal(tt.expected) {
				t.Errorf("Sum: got %v, want %v", result, tt.expected)
			}
		})
	}
}

func BenchmarkAmountAdd(b *testing.B) {
	a1 := Ether(1)
	a2 := Gwei(5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a1.Add(a2)
	}
}

func BenchmarkAmountString(b *testing.B) {
	a := Ether(42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.String()
	}
}
