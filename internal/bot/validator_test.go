package bot

import (
	"testing"

	"contabot/internal/core"
	"contabot/internal/intent"
)

func validRegister() *intent.RegisterPayload {
	return &intent.RegisterPayload{
		Date:     "05/03/2025",
		Category: "Food",
		Item:     "Lunch",
		Amount:   "25.00",
		Kind:     "Saída",
	}
}

func TestParseRegistration(t *testing.T) {
	entry, err := ParseRegistration(validRegister())
	if err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	want := core.Entry{
		Date:     core.Date{Day: 5, Month: 3, Year: 2025},
		Category: "Food",
		Item:     "Lunch",
		Amount:   core.Money{Cents: 2500},
		Kind:     core.KindExpense,
	}
	if entry != want {
		t.Errorf("entry = %+v, want %+v", entry, want)
	}
}

func TestParseRegistrationAmountBounds(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
		cents   int64
	}{
		{amount: "0", wantErr: true},
		{amount: "-5", wantErr: true},
		{amount: "1000001", wantErr: true},
		{amount: "1000000", cents: 100_000_000},
		{amount: "15,50", cents: 1550},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			p := validRegister()
			p.Amount = tt.amount
			entry, err := ParseRegistration(p)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("amount %q accepted, want rejection", tt.amount)
				}
				if err != errBadAmount {
					t.Errorf("err = %v, want errBadAmount", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("amount %q rejected: %v", tt.amount, err)
			}
			if entry.Amount.Cents != tt.cents {
				t.Errorf("cents = %d, want %d", entry.Amount.Cents, tt.cents)
			}
		})
	}
}

func TestParseRegistrationPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *intent.RegisterPayload)
		want   error
	}{
		{name: "nil payload", mutate: nil, want: errMissingDate},
		{name: "missing date", mutate: func(p *intent.RegisterPayload) { p.Date = "" }, want: errMissingDate},
		{name: "malformed date", mutate: func(p *intent.RegisterPayload) { p.Date = "35/03/2025" }, want: errMissingDate},
		{name: "blank category", mutate: func(p *intent.RegisterPayload) { p.Category = "  " }, want: errMissingCat},
		{name: "blank item", mutate: func(p *intent.RegisterPayload) { p.Item = "" }, want: errMissingItem},
		{name: "bad amount", mutate: func(p *intent.RegisterPayload) { p.Amount = "abc" }, want: errBadAmount},
		{name: "bad kind", mutate: func(p *intent.RegisterPayload) { p.Kind = "Transfer" }, want: errBadKind},
		{
			// Every field is bad: the date failure wins.
			name: "all invalid reports date first",
			mutate: func(p *intent.RegisterPayload) {
				*p = intent.RegisterPayload{Date: "", Category: "", Item: "", Amount: "-1", Kind: "x"}
			},
			want: errMissingDate,
		},
		{
			// Date ok, everything else bad: category is next in line.
			name: "category before item and amount",
			mutate: func(p *intent.RegisterPayload) {
				p.Category, p.Item, p.Amount, p.Kind = "", "", "0", ""
			},
			want: errMissingCat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p *intent.RegisterPayload
			if tt.mutate != nil {
				p = validRegister()
				tt.mutate(p)
			}
			_, err := ParseRegistration(p)
			if err != tt.want {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRecurring(t *testing.T) {
	got, err := ParseRecurring(&intent.RegisterFixedPayload{
		Item:     "Rent",
		Amount:   "1200,00",
		Category: "Home",
	})
	if err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if got.Amount.Cents != 120000 {
		t.Errorf("cents = %d, want 120000", got.Amount.Cents)
	}

	if _, err := ParseRecurring(&intent.RegisterFixedPayload{Item: "Rent", Amount: "1200"}); err != errMissingFields {
		t.Errorf("missing category: err = %v, want errMissingFields", err)
	}
	if _, err := ParseRecurring(nil); err != errMissingFields {
		t.Errorf("nil payload: err = %v, want errMissingFields", err)
	}
	if _, err := ParseRecurring(&intent.RegisterFixedPayload{Item: "Rent", Amount: "0", Category: "Home"}); err != errBadAmount {
		t.Errorf("zero amount: err = %v, want errBadAmount", err)
	}
}
