package wealth

import (
	"math"
	"testing"
)

func TestNewStockAccount(t *testing.T) {
	a := NewStockAccount(" aapl ", "", USD, 3, 33.335)
	if a.Symbol != "AAPL" || a.Name != "AAPL" {
		t.Errorf("NewStockAccount() symbol, name = %q, %q, want AAPL, AAPL", a.Symbol, a.Name)
	}
	if a.Balance != 100 {
		t.Errorf("NewStockAccount().Balance = %v, want 100", a.Balance)
	}
	if a.ID == "" {
		t.Error("NewStockAccount().ID is empty")
	}
}

// every mutation keeps balance == round(quantity * price)
func TestAccount_StockBalanceFollowsQuantityAndPrice(t *testing.T) {
	a := NewStockAccount("0700.HK", "Tencent", HKD, 100, 300.25)
	steps := []struct {
		name string
		fn   func(Account) Account
	}{
		{"set quantity", func(a Account) Account { return a.WithQuantity(150.5) }},
		{"set price", func(a Account) Account { return a.WithPrice(299.99) }},
		{"step up", func(a Account) Account { return a.StepQuantity(1) }},
		{"step down", func(a Account) Account { return a.StepQuantity(-1) }},
		{"NaN price", func(a Account) Account { return a.WithPrice(math.NaN()) }},
		{"price again", func(a Account) Account { return a.WithPrice(1.005) }},
		{"balance is ignored", func(a Account) Account { return a.WithBalance(42) }},
	}
	for _, s := range steps {
		a = s.fn(a)
		if want := Round(a.Quantity * a.LastPrice); a.Balance != want {
			t.Errorf("after %s: Balance = %v, want %v", s.name, a.Balance, want)
		}
	}
}

func TestAccount_StepQuantity_Clamp(t *testing.T) {
	a := NewStockAccount("AAPL", "", USD, 0.5, 100)
	a = a.StepQuantity(-1)
	if a.Quantity != 0 || a.Balance != 0 {
		t.Errorf("StepQuantity(-1) = %v shares, %v balance, want 0, 0", a.Quantity, a.Balance)
	}
}

func TestAccount_Cash(t *testing.T) {
	a := NewCashAccount("HSBC", HKD, 10)
	if got := a.WithQuantity(5); got != a {
		t.Errorf("WithQuantity() on cash = %v, want unchanged %v", got, a)
	}
	if got := a.WithBalance(-1).Balance; got != 0 {
		t.Errorf("WithBalance(-1).Balance = %v, want 0", got)
	}
	if got := a.WithBalance(25.5).Balance; got != 25.5 {
		t.Errorf("WithBalance(25.5).Balance = %v, want 25.5", got)
	}
}
