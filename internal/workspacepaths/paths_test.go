package workspacepaths

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "/tmp/x", want: "/tmp/x"},
		{name: "trailing slash", raw: "/tmp/x/", want: "/tmp/x"},
		{name: "many trailing slashes", raw: "/tmp/x///", want: "/tmp/x"},
		{name: "backslashes", raw: `\tmp\x`, want: "/tmp/x"},
		{name: "windows drive", raw: `C:\Users\dev\repo\`, want: "C:/Users/dev/repo"},
		{name: "whitespace", raw: "  /tmp/x  ", want: "/tmp/x"},
		{name: "case preserved", raw: "/Tmp/X", want: "/Tmp/X"},
		{name: "empty", raw: "", want: RootKey},
		{name: "blank", raw: "   ", want: RootKey},
		{name: "only slash", raw: "/", want: RootKey},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeKey(tc.raw); got != tc.want {
				t.Fatalf("NormalizeKey(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestSameDir(t *testing.T) {
	if !SameDir("/tmp/x/", `\tmp\x`) {
		t.Fatalf("expected equivalent directories")
	}
	if SameDir("/tmp/x", "/tmp/y") {
		t.Fatalf("expected different directories")
	}
}

func TestLabels(t *testing.T) {
	if got := Label(RootKey); got != "/" {
		t.Fatalf("unexpected root label: %q", got)
	}
	if got := ShortLabel("/home/dev/src/agentdev"); got != "src/agentdev" {
		t.Fatalf("unexpected short label: %q", got)
	}
	if got := ShortLabel("/agentdev"); got != "agentdev" {
		t.Fatalf("unexpected short label: %q", got)
	}
}
