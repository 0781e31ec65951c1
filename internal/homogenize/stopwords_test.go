package homogenize

import "testing"

func TestNormalizeOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		strip bool
		want  string
	}{
		{name: "no stripping", in: "Date of Loss", strip: false, want: "date_of_loss"},
		{name: "stopwords removed", in: "Date of Loss", strip: true, want: "date_loss"},
		{name: "multiple stopwords", in: "Amount Paid to the Claimant", strip: true, want: "amount_paid_claimant"},
		{name: "all stopwords keeps key", in: "of the", strip: true, want: "of_the"},
		{name: "no homogenization happens", in: "pol_no", strip: true, want: "pol_no"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeOnly(tt.in, tt.strip)
			if got != tt.want {
				t.Errorf("NormalizeOnly(%q, %v) = %q, want %q", tt.in, tt.strip, got, tt.want)
			}
		})
	}
}
