package service

import "testing"

func TestGuessMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		answer string
		mk     string
		mdl    string
		want   bool
	}{
		{"exact", "Toyota Supra", "Toyota", "Supra", true},
		{"case insensitive", "Toyota Supra", "toyota", "SUPRA", true},
		{"partial model", "VW Golf GTI", "vw", "golf", true},
		{"guess longer than token", "VW Golf", "volkswagen vw", "golf", true},
		{"wrong model", "Toyota Supra", "Toyota", "Celica", false},
		{"wrong make", "Toyota Supra", "Nissan", "Supra", false},
		{"empty make", "Toyota Supra", "", "Supra", false},
		{"empty model", "Toyota Supra", "Toyota", "", false},
		{"multi word answer", "Mercedes-Benz 190E Evo II", "mercedes-benz", "190e", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := guessMatches(tc.answer, tc.mk, tc.mdl); got != tc.want {
				t.Fatalf("guessMatches(%q, %q, %q) = %v, want %v", tc.answer, tc.mk, tc.mdl, got, tc.want)
			}
		})
	}
}

func TestSplitIdentity(t *testing.T) {
	t.Parallel()

	mk, mdl := splitIdentity("Toyota Supra MK4")
	if mk == nil || *mk != "Toyota" || mdl == nil || *mdl != "Supra MK4" {
		t.Fatalf("splitIdentity: %v %v", mk, mdl)
	}

	mk, mdl = splitIdentity("Miata")
	if mk != nil || mdl != nil {
		t.Fatalf("single token should yield nothing: %v %v", mk, mdl)
	}

	mk, mdl = splitIdentity("  ")
	if mk != nil || mdl != nil {
		t.Fatalf("blank answer should yield nothing: %v %v", mk, mdl)
	}
}
