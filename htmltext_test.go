package bookpub

import "testing"

func TestVisibleText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text fast path",
			input:    "just plain words",
			expected: "just plain words",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "strips simple tags",
			input:    "<strong>hola</strong> amigo",
			expected: "hola amigo",
		},
		{
			name:     "strips nested tags",
			input:    `<a href="#x"><em>deep</em> link</a>`,
			expected: "deep link",
		},
		{
			name:     "unescapes entities",
			input:    "fish &amp; chips",
			expected: "fish & chips",
		},
		{
			name:     "entities inside tags",
			input:    "<code>a &lt; b</code>",
			expected: "a < b",
		},
		{
			name:     "unicode preserved",
			input:    "<em>¡Qué onda, güey!</em>",
			expected: "¡Qué onda, güey!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleText(tt.input); got != tt.expected {
				t.Errorf("VisibleText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
