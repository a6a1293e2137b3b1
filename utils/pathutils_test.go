package utils

import "testing"

func TestNormalizeRemote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"forward slashes", "megadrive/sonic.zip", "megadrive\\sonic.zip"},
		{"current dir segment", "megadrive\\.\\sonic.zip", "megadrive\\sonic.zip"},
		{"mixed separators", "megadrive/./sonic.zip", "megadrive\\sonic.zip"},
		{"leading dot slash", "./sonic.zip", "sonic.zip"},
		{"doubled separators", "megadrive\\\\sonic.zip", "megadrive\\sonic.zip"},
		{"already clean", "megadrive\\sonic.zip", "megadrive\\sonic.zip"},
		{"repeated dot segments", "a\\.\\.\\b.zip", "a\\b.zip"},
		{"bare filename", "sonic.zip", "sonic.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRemote(tt.input); got != tt.want {
				t.Errorf("NormalizeRemote(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRemoteJoin(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"megadrive", "sonic.zip"}, "megadrive\\sonic.zip"},
		{[]string{"megadrive", "./sonic.zip"}, "megadrive\\sonic.zip"},
		{[]string{"", "sonic.zip"}, "sonic.zip"},
		{[]string{"a", "b", "c"}, "a\\b\\c"},
	}

	for _, tt := range tests {
		if got := RemoteJoin(tt.parts...); got != tt.want {
			t.Errorf("RemoteJoin(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestRemoteBase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"megadrive\\sonic.zip", "sonic.zip"},
		{"megadrive/sonic.zip", "sonic.zip"},
		{"./sonic.zip", "sonic.zip"},
		{"sonic.zip", "sonic.zip"},
	}

	for _, tt := range tests {
		if got := RemoteBase(tt.input); got != tt.want {
			t.Errorf("RemoteBase(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRemoteDir(t *testing.T) {
	if got := RemoteDir("megadrive\\sub\\sonic.zip"); got != "megadrive\\sub" {
		t.Errorf("RemoteDir = %q, want megadrive\\sub", got)
	}
	if got := RemoteDir("sonic.zip"); got != "" {
		t.Errorf("RemoteDir of bare filename = %q, want empty", got)
	}
}

func TestSanitizeLocal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a/b.zip", "a/b.zip"},
		{"../a/b.zip", "a/b.zip"},
		{"../../b.zip", "b.zip"},
		{"/abs/b.zip", "abs/b.zip"},
		{"..", "."},
		{"", "."},
	}

	for _, tt := range tests {
		got := SanitizeLocal(tt.input)
		// filepath.FromSlash is identity on unix; compare in slash form.
		if got != tt.want {
			t.Errorf("SanitizeLocal(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
