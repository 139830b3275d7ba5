package mailbox

import (
	"fmt"
	"time"
)

// Message is one unread message pulled from the inbox. Sender keeps the
// display form ("Name <addr>") so the pipeline can extract both parts.
type Message struct {
	UID       uint32
	MessageID string
	Sender    string
	Subject   string
	Body      string
	Date      time.Time
}

// TransportError wraps a connectivity or authentication failure against
// the IMAP or SMTP server.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mailbox %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
