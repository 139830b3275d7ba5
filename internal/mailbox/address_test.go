package mailbox

import "testing"

func TestExtractAddress(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Jane Doe <jane@example.com>", "jane@example.com"},
		{"<bob@example.com>", "bob@example.com"},
		{"plain@example.com", "plain@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
	}
	for _, c := range cases {
		if got := ExtractAddress(c.in); got != c.want {
			t.Errorf("ExtractAddress(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Jane Doe <jane@example.com>", "Jane Doe"},
		{"<bob@example.com>", ""},
		{"plain@example.com", ""},
	}
	for _, c := range cases {
		if got := ExtractName(c.in); got != c.want {
			t.Errorf("ExtractName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReplySubject(t *testing.T) {
	if got := ReplySubject("Can we meet?"); got != "Re: Can we meet?" {
		t.Errorf("ReplySubject = %q", got)
	}
	if got := ReplySubject("Re: Can we meet?"); got != "Re: Can we meet?" {
		t.Errorf("ReplySubject should not double the prefix, got %q", got)
	}
}
