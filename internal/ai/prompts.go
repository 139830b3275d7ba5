package ai

import (
	"fmt"
	"strings"

	"mailtriage/internal/model"
)

var toneInstructions = map[model.ReplyTone]string{
	model.ToneFormal:     "Write a formal, professional response using business language and proper etiquette.",
	model.ToneFriendly:   "Write a warm, friendly response that maintains professionalism while being approachable.",
	model.ToneApologetic: "Write a response that acknowledges any issues and expresses sincere apologies where appropriate.",
	model.ToneAssertive:  "Write a confident, direct response that clearly states your position or requirements.",
}

var intentContexts = map[model.EmailIntent]string{
	model.IntentMeetingRequest: "This is a meeting request. Consider availability, scheduling preferences, and meeting purpose.",
	model.IntentJobInquiry:     "This is a job inquiry. Consider the candidate's qualifications and company hiring process.",
	model.IntentComplaint:      "This is a complaint. Address concerns professionally and offer solutions.",
	model.IntentFeedback:       "This is feedback. Acknowledge the input and show appreciation for their time.",
	model.IntentSupportRequest: "This is a support request. Provide helpful guidance or escalate appropriately.",
	model.IntentFollowUp:       "This is a follow-up. Reference the previous conversation and provide updates.",
	model.IntentOther:          "This is a general inquiry. Provide a helpful and professional response.",
}

func classifyPrompt(subject, body string) string {
	return fmt.Sprintf(`Analyze the following email and classify its intent into one of these categories:
- Meeting Request: Someone wants to schedule a meeting or call
- Job Inquiry: Someone asking about job opportunities or applications
- Complaint: Someone expressing dissatisfaction or problems
- Feedback: Someone providing feedback or suggestions
- Support Request: Someone asking for help or technical support
- Follow-up: Someone following up on a previous conversation
- Other: Anything that doesn't fit the above categories

Email Subject: %s
Email Body: %s

Respond with ONLY the category name (e.g., "Meeting Request", "Job Inquiry", etc.)`, subject, body)
}

func summaryPrompt(subject, body string) string {
	return fmt.Sprintf(`Provide a brief, professional summary of this email in 2-3 sentences:

Subject: %s
Body: %s

Focus on the key points and action items.`, subject, body)
}

func replyPrompt(subject, body string, intent model.EmailIntent, tone model.ReplyTone, senderName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Generate a professional email reply based on the following information:

Original Email:
Subject: %s
Body: %s

Intent: %s
Tone: %s
`, subject, body, intent, tone)

	if senderName != "" {
		fmt.Fprintf(&b, "Sender Name: %s\n", senderName)
	}

	fmt.Fprintf(&b, `
Instructions:
%s
%s

Requirements:
- Keep the response concise (2-4 sentences)
- Be professional and appropriate
- Address the main points of the original email
- Use the specified tone throughout
- Include a proper greeting and closing
- Don't include email headers (From, To, Subject)`,
		toneInstructions[tone], intentContexts[intent])

	return b.String()
}

func revisePrompt(original, feedback string) string {
	return fmt.Sprintf(`Improve the following email reply based on the user's feedback:

Original Reply:
%s

User Feedback:
%s

Please provide an improved version that addresses the feedback while maintaining professionalism.`, original, feedback)
}
