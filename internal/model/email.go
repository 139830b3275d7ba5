package model

import "time"

// EmailStatus is the review lifecycle of a triaged email.
// Sent is terminal: no transition leaves it.
type EmailStatus string

const (
	StatusPending  EmailStatus = "pending"
	StatusApproved EmailStatus = "approved"
	StatusRejected EmailStatus = "rejected"
	StatusSent     EmailStatus = "sent"
)

// EmailIntent is the closed classification taxonomy. Unrecognized
// classifier output always degrades to IntentOther.
type EmailIntent string

const (
	IntentMeetingRequest EmailIntent = "Meeting Request"
	IntentJobInquiry     EmailIntent = "Job Inquiry"
	IntentComplaint      EmailIntent = "Complaint"
	IntentFeedback       EmailIntent = "Feedback"
	IntentSupportRequest EmailIntent = "Support Request"
	IntentFollowUp       EmailIntent = "Follow-up"
	IntentOther          EmailIntent = "Other"
)

// ReplyTone conditions draft generation. ToneFormal is the pipeline default.
type ReplyTone string

const (
	ToneFormal     ReplyTone = "Formal"
	ToneFriendly   ReplyTone = "Friendly"
	ToneApologetic ReplyTone = "Apologetic"
	ToneAssertive  ReplyTone = "Assertive"
)

// Email is one triaged message with its generated summary and draft reply.
type Email struct {
	ID         int         `json:"id"`
	Sender     string      `json:"sender"`
	Subject    string      `json:"subject"`
	Body       string      `json:"body"`
	Summary    string      `json:"summary"`
	DraftReply string      `json:"draft_reply"`
	Intent     EmailIntent `json:"intent"`
	Tone       ReplyTone   `json:"tone"`
	Status     EmailStatus `json:"status"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Option pairs an enum value with a short description for the dashboard.
type Option struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// ParseStatus validates a status value from operator input.
func ParseStatus(s string) (EmailStatus, bool) {
	switch EmailStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusSent:
		return EmailStatus(s), true
	}
	return "", false
}

// ParseTone validates a tone value from operator input.
func ParseTone(s string) (ReplyTone, bool) {
	switch ReplyTone(s) {
	case ToneFormal, ToneFriendly, ToneApologetic, ToneAssertive:
		return ReplyTone(s), true
	}
	return "", false
}

// IntentFromLabel maps free-form classifier output onto the closed
// taxonomy. Anything unrecognized is IntentOther.
func IntentFromLabel(s string) EmailIntent {
	switch EmailIntent(s) {
	case IntentMeetingRequest, IntentJobInquiry, IntentComplaint,
		IntentFeedback, IntentSupportRequest, IntentFollowUp, IntentOther:
		return EmailIntent(s)
	}
	return IntentOther
}

// StatusOptions lists every status value in lifecycle order.
func StatusOptions() []string {
	return []string{
		string(StatusPending),
		string(StatusApproved),
		string(StatusRejected),
		string(StatusSent),
	}
}

// AvailableTones lists reply tones with dashboard descriptions.
func AvailableTones() []Option {
	return []Option{
		{Value: string(ToneFormal), Description: "Professional and business-like"},
		{Value: string(ToneFriendly), Description: "Warm and approachable"},
		{Value: string(ToneApologetic), Description: "Sincere and apologetic"},
		{Value: string(ToneAssertive), Description: "Confident and direct"},
	}
}

// AvailableIntents lists intent categories with dashboard descriptions.
func AvailableIntents() []Option {
	return []Option{
		{Value: string(IntentMeetingRequest), Description: "Meeting or call scheduling"},
		{Value: string(IntentJobInquiry), Description: "Job opportunities or applications"},
		{Value: string(IntentComplaint), Description: "Dissatisfaction or problems"},
		{Value: string(IntentFeedback), Description: "Feedback or suggestions"},
		{Value: string(IntentSupportRequest), Description: "Help or technical support"},
		{Value: string(IntentFollowUp), Description: "Following up on previous conversation"},
		{Value: string(IntentOther), Description: "General inquiries"},
	}
}
