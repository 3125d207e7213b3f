package leadreport

import "testing"

func TestDefaultStyle_Valid(t *testing.T) {
	if err := DefaultStyle().Validate(); err != nil {
		t.Fatalf("default style invalid: %v", err)
	}
	s := DefaultStyle()
	if s.HeaderFontSize != 6 || s.BodyFontSize != 5 {
		t.Errorf("default sizes = %v/%v, want 6/5", s.HeaderFontSize, s.BodyFontSize)
	}
}

func TestStyle_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Style)
	}{
		{"zero body size", func(s *Style) { s.BodyFontSize = 0 }},
		{"negative header size", func(s *Style) { s.HeaderFontSize = -1 }},
		{"leading below size", func(s *Style) { s.BodyLeading = s.BodyFontSize - 1 }},
		{"huge title", func(s *Style) { s.TitleFontSize = 500 }},
		{"negative padding", func(s *Style) { s.CellPadding = -2 }},
		{"css injection", func(s *Style) { s.FontFamily = "Arial; } body { display:none" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStyle()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
