package detector

import "testing"

func TestNewLanguageFilter_Errors(t *testing.T) {
	if _, err := NewLanguageFilter(nil); err == nil {
		t.Error("NewLanguageFilter(nil) returned no error")
	}
	if _, err := NewLanguageFilter([]string{"zz"}); err == nil {
		t.Error("NewLanguageFilter(zz) returned no error")
	}
}

func TestLanguageFilter_Accept(t *testing.T) {
	f, err := NewLanguageFilter([]string{"zh"})
	if err != nil {
		t.Fatalf("NewLanguageFilter() error = %v", err)
	}

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "chinese", text: "北京和上海在金融领域展开了深入的合作，推动经济发展。", want: true},
		{name: "english", text: "The quick brown fox jumps over the lazy dog near the river bank.", want: false},
		{name: "empty", text: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Accept(tt.text); got != tt.want {
				t.Errorf("Accept(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
