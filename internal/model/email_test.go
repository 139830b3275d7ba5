package model

import "testing"

func TestIntentFromLabel(t *testing.T) {
	t.Run("known categories map to themselves", func(t *testing.T) {
		for _, label := range []string{
			"Meeting Request", "Job Inquiry", "Complaint", "Feedback",
			"Support Request", "Follow-up", "Other",
		} {
			if got := IntentFromLabel(label); string(got) != label {
				t.Errorf("IntentFromLabel(%q) = %q", label, got)
			}
		}
	})

	t.Run("unrecognized output degrades to Other", func(t *testing.T) {
		for _, label := range []string{
			"", "meeting request", "Spam", "Meeting Request.", "I think this is a complaint",
		} {
			if got := IntentFromLabel(label); got != IntentOther {
				t.Errorf("IntentFromLabel(%q) = %q, want Other", label, got)
			}
		}
	})
}

func TestParseTone(t *testing.T) {
	if _, ok := ParseTone("Friendly"); !ok {
		t.Error("ParseTone(Friendly) not accepted")
	}
	if _, ok := ParseTone("friendly"); ok {
		t.Error("ParseTone is case sensitive, lowercase should be rejected")
	}
	if _, ok := ParseTone("Sarcastic"); ok {
		t.Error("ParseTone accepted a value outside the taxonomy")
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected", "sent"} {
		if _, ok := ParseStatus(s); !ok {
			t.Errorf("ParseStatus(%q) not accepted", s)
		}
	}
	if _, ok := ParseStatus("archived"); ok {
		t.Error("ParseStatus accepted a value outside the lifecycle")
	}
}
