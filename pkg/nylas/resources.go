package nylas

import (
	"context"
	"time"

	"github.com/nylas/nylas-ruby-sub000/pkg/model"
)

// Participant is an event attendee.
type Participant struct{ *model.Record }

func (p Participant) Name() string   { return p.GetString("name") }
func (p Participant) Email() string  { return p.GetString("email") }
func (p Participant) Status() string { return p.GetString("status") }

// Timespan is the "when" of an event: a single time, a time range, a date or
// a date range, distinguished by Object.
type Timespan struct{ *model.Record }

func (t Timespan) Object() string       { return t.GetString("object") }
func (t Timespan) StartTime() time.Time { return t.GetTime("start_time") }
func (t Timespan) EndTime() time.Time   { return t.GetTime("end_time") }
func (t Timespan) Date() time.Time      { return t.GetTime("date") }

// EmailAddress is a named address on a message, thread or contact.
type EmailAddress struct{ *model.Record }

func (e EmailAddress) Name() string  { return e.GetString("name") }
func (e EmailAddress) Email() string { return e.GetString("email") }

// Event is a calendar event.
type Event struct{ *model.Record }

func (e Event) CalendarID() string  { return e.GetString("calendar_id") }
func (e Event) Title() string       { return e.GetString("title") }
func (e Event) Description() string { return e.GetString("description") }
func (e Event) Location() string    { return e.GetString("location") }
func (e Event) Busy() bool          { return e.GetBool("busy") }
func (e Event) ReadOnly() bool      { return e.GetBool("read_only") }

func (e Event) SetTitle(title string) error { return e.Set("title", title) }

// When returns the event's timespan.
func (e Event) When() Timespan {
	return Timespan{e.GetRecord("when")}
}

// Participants returns the attendees.
func (e Event) Participants() []Participant {
	records := e.GetRecords("participants")
	out := make([]Participant, len(records))
	for i, r := range records {
		out[i] = Participant{r}
	}
	return out
}

// Calendar is a calendar owning events.
type Calendar struct{ *model.Record }

func (c Calendar) Name() string     { return c.GetString("name") }
func (c Calendar) Timezone() string { return c.GetString("timezone") }
func (c Calendar) ReadOnly() bool   { return c.GetBool("read_only") }

// Label is a Gmail-style label. Several labels can apply to one message.
type Label struct{ *model.Record }

func (l Label) Name() string        { return l.GetString("name") }
func (l Label) DisplayName() string { return l.GetString("display_name") }

// Folder is an IMAP or Exchange folder. A message lives in exactly one.
type Folder struct{ *model.Record }

func (f Folder) Name() string        { return f.GetString("name") }
func (f Folder) DisplayName() string { return f.GetString("display_name") }

// Message is an email message.
type Message struct{ *model.Record }

func (m Message) ThreadID() string { return m.GetString("thread_id") }
func (m Message) Subject() string  { return m.GetString("subject") }
func (m Message) Body() string     { return m.GetString("body") }
func (m Message) Snippet() string  { return m.GetString("snippet") }
func (m Message) Unread() bool     { return m.GetBool("unread") }
func (m Message) Starred() bool    { return m.GetBool("starred") }
func (m Message) Date() time.Time  { return m.GetTime("date") }

func (m Message) From() []EmailAddress { return addresses(m.Record, "from") }
func (m Message) To() []EmailAddress   { return addresses(m.Record, "to") }

// Labels returns the labels applied to the message.
func (m Message) Labels() []Label {
	records := m.GetRecords("labels")
	out := make([]Label, len(records))
	for i, r := range records {
		out[i] = Label{r}
	}
	return out
}

// Folder returns the folder holding the message.
func (m Message) Folder() Folder {
	return Folder{m.GetRecord("folder")}
}

// UpdateLabels replaces the message's labels. Labels may be records or
// bare ids.
func (m Message) UpdateLabels(ctx context.Context, labels ...model.HasIdentity) error {
	return m.Update(ctx, map[string]any{"label_ids": model.IDs(labels...)})
}

// UpdateFolder moves the message.
func (m Message) UpdateFolder(ctx context.Context, folder model.HasIdentity) error {
	return m.Update(ctx, map[string]any{"folder_id": folderID(folder)})
}

// MarkAsRead clears the unread flag.
func (m Message) MarkAsRead(ctx context.Context) error {
	return m.Update(ctx, map[string]any{"unread": false})
}

// Star sets the starred flag.
func (m Message) Star(ctx context.Context) error {
	return m.Update(ctx, map[string]any{"starred": true})
}

// Draft is an unsent message.
type Draft struct{ *model.Record }

func (d Draft) Subject() string { return d.GetString("subject") }
func (d Draft) Version() int    { return d.GetInt("version") }

// Thread is a conversation of messages.
type Thread struct{ *model.Record }

func (t Thread) Subject() string      { return t.GetString("subject") }
func (t Thread) Unread() bool         { return t.GetBool("unread") }
func (t Thread) MessageIDs() []string { return t.GetStrings("message_ids") }

func (t Thread) Participants() []EmailAddress { return addresses(t.Record, "participants") }

// UpdateLabels replaces the labels of every message in the thread.
func (t Thread) UpdateLabels(ctx context.Context, labels ...model.HasIdentity) error {
	return t.Update(ctx, map[string]any{"label_ids": model.IDs(labels...)})
}

// UpdateFolder moves every message in the thread.
func (t Thread) UpdateFolder(ctx context.Context, folder model.HasIdentity) error {
	return t.Update(ctx, map[string]any{"folder_id": folderID(folder)})
}

// Contact is an address book entry.
type Contact struct{ *model.Record }

func (c Contact) GivenName() string      { return c.GetString("given_name") }
func (c Contact) Surname() string        { return c.GetString("surname") }
func (c Contact) Birthday() time.Time    { return c.GetTime("birthday") }
func (c Contact) Emails() []EmailAddress { return addresses(c.Record, "emails") }

// File is an attachment.
type File struct{ *model.Record }

func (f File) Filename() string    { return f.GetString("filename") }
func (f File) ContentType() string { return f.GetString("content_type") }
func (f File) Size() int           { return f.GetInt("size") }

// Webhook is an application webhook subscription.
type Webhook struct{ *model.Record }

func (w Webhook) CallbackURL() string { return w.GetString("callback_url") }
func (w Webhook) Active() bool        { return w.GetString("state") == "active" }
func (w Webhook) Triggers() []string  { return w.GetStrings("triggers") }

func addresses(r *model.Record, name string) []EmailAddress {
	records := r.GetRecords(name)
	out := make([]EmailAddress, len(records))
	for i, rec := range records {
		out[i] = EmailAddress{rec}
	}
	return out
}

func folderID(folder model.HasIdentity) string {
	if ids := model.IDs(folder); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
