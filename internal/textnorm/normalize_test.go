package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "PADARIA", want: "padaria"},
		{name: "strips accents", input: "Cartão de Crédito", want: "cartao de credito"},
		{name: "strips tilde", input: "Saída à vista", want: "saida a vista"},
		{name: "trims", input: "  mercado  ", want: "mercado"},
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	if !Contains("Padaria São João", "sao joao") {
		t.Error("accent and case differences should not defeat a substring match")
	}
	if Contains("Mercado", "padaria") {
		t.Error("unrelated strings must not match")
	}
}

func TestEqual(t *testing.T) {
	if !Equal("ÚLTIMO", "ultimo") {
		t.Error("Equal should fold case and accents")
	}
}
