// Package nylas declares the service's resources on top of the model and
// collection packages and wires them to an API client.
package nylas

import (
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
	"github.com/nylas/nylas-ruby-sub000/pkg/types"
)

// Object names, as reported in the "object" field of payloads and deltas.
const (
	ObjectAccount      = "account"
	ObjectCalendar     = "calendar"
	ObjectContact      = "contact"
	ObjectDraft        = "draft"
	ObjectEmailAddress = "email_address"
	ObjectEvent        = "event"
	ObjectFile         = "file"
	ObjectFolder       = "folder"
	ObjectLabel        = "label"
	ObjectMessage      = "message"
	ObjectParticipant  = "participant"
	ObjectPhoneNumber  = "phone_number"
	ObjectThread       = "thread"
	ObjectTimespan     = "timespan"
	ObjectWebhook      = "webhook"
)

// Catalog holds every resource schema, all resolving types against one
// registry.
type Catalog struct {
	Registry *types.Registry

	Participant  *model.Schema
	Timespan     *model.Schema
	EmailAddress *model.Schema
	PhoneNumber  *model.Schema

	Account  *model.Schema
	Calendar *model.Schema
	Event    *model.Schema
	Label    *model.Schema
	Folder   *model.Schema
	Message  *model.Schema
	Draft    *model.Schema
	Thread   *model.Schema
	Contact  *model.Schema
	File     *model.Schema
	Webhook  *model.Schema
}

var (
	readOnly = model.Capabilities{Showable: true}

	standard = model.Capabilities{
		Creatable:   true,
		Listable:    true,
		Filterable:  true,
		Showable:    true,
		Updatable:   true,
		Destroyable: true,
	}

	mailbox = model.Capabilities{
		Listable:   true,
		Filterable: true,
		Showable:   true,
		Updatable:  true,
		Searchable: true,
	}
)

func attr(name string, key types.Key) model.Attribute {
	return model.Attribute{Name: name, Type: key}
}

func readOnlyAttr(name string, key types.Key) model.Attribute {
	return model.Attribute{Name: name, Type: key, ReadOnly: true}
}

func many(name string, key types.Key) model.Attribute {
	return model.Attribute{Name: name, Type: key, Many: true, Default: []any{}}
}

func readOnlyMany(name string, key types.Key) model.Attribute {
	return model.Attribute{Name: name, Type: key, Many: true, ReadOnly: true, Default: []any{}}
}

// identity returns the attributes every top-level resource carries.
func identity() []model.Attribute {
	return []model.Attribute{
		readOnlyAttr("id", types.String),
		readOnlyAttr("object", types.String),
		readOnlyAttr("account_id", types.String),
	}
}

// NewCatalog declares every schema. Nested types are registered before the
// schemas that use them, so the registry contents are fixed by the time the
// first top-level schema is declared.
func NewCatalog() *Catalog {
	reg := types.NewRegistry()
	c := &Catalog{Registry: reg}

	c.Participant = nested(reg, ObjectParticipant,
		attr("name", types.String),
		attr("email", types.String),
		attr("status", types.String),
		attr("comment", types.String),
	)
	c.Timespan = nested(reg, ObjectTimespan,
		attr("object", types.String),
		attr("time", types.UnixTimestamp),
		attr("start_time", types.UnixTimestamp),
		attr("end_time", types.UnixTimestamp),
		attr("date", types.Date),
		attr("start_date", types.Date),
		attr("end_date", types.Date),
		attr("timezone", types.String),
	)
	c.EmailAddress = nested(reg, ObjectEmailAddress,
		attr("name", types.String),
		attr("email", types.String),
		attr("type", types.String),
	)
	c.PhoneNumber = nested(reg, ObjectPhoneNumber,
		attr("type", types.String),
		attr("number", types.String),
	)

	c.Label = resource(reg, ObjectLabel, "/labels", withoutFiltering(standard),
		attr("name", types.String),
		attr("display_name", types.String),
	)
	reg.MustRegister(ObjectLabel, c.Label.Caster())

	c.Folder = resource(reg, ObjectFolder, "/folders", withoutFiltering(standard),
		attr("name", types.String),
		attr("display_name", types.String),
	)
	reg.MustRegister(ObjectFolder, c.Folder.Caster())

	c.Account = model.NewSchema(ObjectAccount, reg,
		model.WithPath("/account"), model.WithCapabilities(readOnly)).MustDefine(
		readOnlyAttr("id", types.String),
		readOnlyAttr("object", types.String),
		readOnlyAttr("account_id", types.String),
		readOnlyAttr("name", types.String),
		readOnlyAttr("email_address", types.String),
		readOnlyAttr("provider", types.String),
		readOnlyAttr("organization_unit", types.String),
		readOnlyAttr("sync_state", types.String),
		readOnlyAttr("linked_at", types.UnixTimestamp),
	)

	c.Calendar = resource(reg, ObjectCalendar, "/calendars", standard,
		attr("name", types.String),
		attr("description", types.String),
		attr("location", types.String),
		attr("timezone", types.String),
		readOnlyAttr("read_only", types.Boolean),
		readOnlyAttr("is_primary", types.Boolean),
		model.Attribute{Name: "metadata", Type: types.Hash, Default: map[string]any{}},
	)

	c.Event = resource(reg, ObjectEvent, "/events", standard,
		attr("calendar_id", types.String),
		readOnlyAttr("ical_uid", types.String),
		readOnlyAttr("message_id", types.String),
		readOnlyAttr("owner", types.String),
		readOnlyAttr("read_only", types.Boolean),
		readOnlyAttr("master_event_id", types.String),
		readOnlyAttr("original_start_time", types.UnixTimestamp),
		attr("title", types.String),
		attr("description", types.String),
		attr("location", types.String),
		attr("busy", types.Boolean),
		attr("status", types.String),
		attr("when", ObjectTimespan),
		many("participants", ObjectParticipant),
		attr("recurrence", types.Hash),
		attr("conferencing", types.Hash),
		attr("reminders", types.Hash),
		model.Attribute{Name: "metadata", Type: types.Hash, Default: map[string]any{}},
	)

	c.Message = resource(reg, ObjectMessage, "/messages", mailbox,
		readOnlyAttr("thread_id", types.String),
		readOnlyAttr("snippet", types.String),
		readOnlyAttr("date", types.UnixTimestamp),
		attr("subject", types.String),
		many("from", ObjectEmailAddress),
		many("to", ObjectEmailAddress),
		many("cc", ObjectEmailAddress),
		many("bcc", ObjectEmailAddress),
		many("reply_to", ObjectEmailAddress),
		attr("body", types.String),
		attr("unread", types.Boolean),
		attr("starred", types.Boolean),
		readOnlyAttr("files", types.Array),
		readOnlyAttr("events", types.Array),
		readOnlyAttr("folder", ObjectFolder),
		readOnlyMany("labels", ObjectLabel),
		model.Attribute{Name: "folder_id", Type: types.String, ExcludeOn: []model.Operation{model.OpCreate}},
		model.Attribute{Name: "label_ids", Type: types.String, Many: true, ExcludeOn: []model.Operation{model.OpCreate}},
		model.Attribute{Name: "metadata", Type: types.Hash, Default: map[string]any{}},
	)

	c.Draft = c.Message.Inherit(ObjectDraft,
		model.WithPath("/drafts"),
		model.WithCapabilities(model.Capabilities{
			Creatable:   true,
			Listable:    true,
			Filterable:  true,
			Showable:    true,
			Updatable:   true,
			Destroyable: true,
		})).MustDefine(
		attr("version", types.Integer),
		attr("reply_to_message_id", types.String),
		model.Attribute{Name: "file_ids", Type: types.String, Many: true},
	)

	c.Thread = resource(reg, ObjectThread, "/threads", mailbox,
		readOnlyAttr("subject", types.String),
		readOnlyAttr("snippet", types.String),
		attr("unread", types.Boolean),
		attr("starred", types.Boolean),
		readOnlyMany("participants", ObjectEmailAddress),
		readOnlyAttr("message_ids", types.Array),
		readOnlyAttr("draft_ids", types.Array),
		readOnlyAttr("has_attachments", types.Boolean),
		readOnlyAttr("first_message_timestamp", types.UnixTimestamp),
		readOnlyAttr("last_message_timestamp", types.UnixTimestamp),
		readOnlyAttr("last_message_received_timestamp", types.UnixTimestamp),
		readOnlyAttr("last_message_sent_timestamp", types.UnixTimestamp),
		readOnlyMany("labels", ObjectLabel),
		readOnlyMany("folders", ObjectFolder),
		model.Attribute{Name: "folder_id", Type: types.String, ExcludeOn: []model.Operation{model.OpCreate}},
		model.Attribute{Name: "label_ids", Type: types.String, Many: true, ExcludeOn: []model.Operation{model.OpCreate}},
	)

	c.Contact = resource(reg, ObjectContact, "/contacts", standard,
		attr("given_name", types.String),
		attr("middle_name", types.String),
		attr("surname", types.String),
		attr("suffix", types.String),
		attr("nickname", types.String),
		attr("company_name", types.String),
		attr("job_title", types.String),
		attr("manager_name", types.String),
		attr("office_location", types.String),
		attr("notes", types.String),
		attr("birthday", types.Date),
		many("emails", ObjectEmailAddress),
		many("phone_numbers", ObjectPhoneNumber),
		attr("web_pages", types.Array),
		readOnlyAttr("picture_url", types.String),
		readOnlyAttr("source", types.String),
		readOnlyAttr("groups", types.Array),
	)

	c.File = resource(reg, ObjectFile, "/files", model.Capabilities{
		Listable:    true,
		Filterable:  true,
		Showable:    true,
		Destroyable: true,
	},
		readOnlyAttr("filename", types.String),
		readOnlyAttr("content_type", types.String),
		readOnlyAttr("content_id", types.String),
		readOnlyAttr("size", types.Integer),
		readOnlyAttr("message_ids", types.Array),
	)

	c.Webhook = model.NewSchema(ObjectWebhook, reg,
		model.WithPath("/webhooks"),
		model.WithCapabilities(withoutFiltering(standard))).MustDefine(
		readOnlyAttr("id", types.String),
		readOnlyAttr("application_id", types.String),
		attr("callback_url", types.String),
		attr("state", types.String),
		model.Attribute{Name: "triggers", Type: types.String, Many: true, Default: []any{}},
		readOnlyAttr("version", types.String),
	)

	return c
}

// Schemas returns the top-level schemas that can appear in the delta feed.
func (c *Catalog) Schemas() []*model.Schema {
	return []*model.Schema{
		c.Calendar, c.Event, c.Label, c.Folder, c.Message,
		c.Draft, c.Thread, c.Contact, c.File,
	}
}

func nested(reg *types.Registry, name string, attrs ...model.Attribute) *model.Schema {
	s := model.NewSchema(name, reg).MustDefine(attrs...)
	reg.MustRegister(types.Key(name), s.Caster())
	return s
}

func resource(reg *types.Registry, name, path string, caps model.Capabilities, attrs ...model.Attribute) *model.Schema {
	return model.NewSchema(name, reg, model.WithPath(path), model.WithCapabilities(caps)).
		MustDefine(identity()...).
		MustDefine(attrs...)
}

func withoutFiltering(c model.Capabilities) model.Capabilities {
	c.Filterable = false
	return c
}
