package csvenc

import (
	"strings"
	"testing"
)

func TestEncodeZeroRows(t *testing.T) {
	got := Encode([]string{"a", "b", "c"}, nil)
	if got != "a,b,c" {
		t.Fatalf("Encode header only = %q", got)
	}
}

func TestEncodeRows(t *testing.T) {
	got := Encode(
		[]string{"type", "text", "amount"},
		[][]string{
			{"superChatEvent", "", "2000000"},
			{"textMessageEvent", "hello", ""},
		},
	)
	want := "type,text,amount\nsuperChatEvent,,2000000\ntextMessageEvent,hello,"
	if got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
	if strings.HasSuffix(got, "\n") {
		t.Fatalf("unexpected trailing newline")
	}
}

func TestEncodeEscaping(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"comma", "a,b", `"a,b"`},
		{"quote", `say "hi"`, `"say ""hi"""`},
		{"newline", "line1\nline2", "\"line1\nline2\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Encode([]string{"f"}, [][]string{{tc.in}})
			want := "f\n" + tc.want
			if got != want {
				t.Fatalf("Encode = %q, want %q", got, want)
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	header := []string{"a", "b"}
	rows := [][]string{{"1", "2"}, {"3", "4"}}
	if Encode(header, rows) != Encode(header, rows) {
		t.Fatal("expected byte-identical output for identical input")
	}
}
