package nylas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
	"github.com/nylas/nylas-ruby-sub000/pkg/types"
)

func newService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient(&api.Config{
		BaseURL:     server.URL,
		AccessToken: "token",
		Logger:      hclog.NewNullLogger(),
	})
	require.NoError(t, err)
	return NewService(client, hclog.NewNullLogger())
}

func TestCatalog_RegistryOrder(t *testing.T) {
	c := NewCatalog()

	assert.Equal(t, []types.Key{
		types.String, types.Boolean, types.Float, types.Integer,
		types.Date, types.UnixTimestamp, types.Hash, types.Array,
		ObjectParticipant, ObjectTimespan, ObjectEmailAddress, ObjectPhoneNumber,
		ObjectLabel, ObjectFolder,
	}, c.Registry.Keys())
}

func TestCatalog_DraftInheritsMessage(t *testing.T) {
	c := NewCatalog()

	_, draftHasVersion := c.Draft.Attribute("version")
	_, messageHasVersion := c.Message.Attribute("version")
	_, draftHasSubject := c.Draft.Attribute("subject")

	assert.True(t, draftHasVersion)
	assert.False(t, messageHasVersion)
	assert.True(t, draftHasSubject)
	assert.True(t, c.Draft.Capabilities().Creatable)
	assert.False(t, c.Message.Capabilities().Creatable)
	assert.Equal(t, "/drafts", c.Draft.Path())
}

func TestEvent_FromJSON(t *testing.T) {
	c := NewCatalog()
	rec, err := c.Event.FromJSON(`{
		"id": "evt_1",
		"object": "event",
		"title": "Planning",
		"busy": true,
		"when": {"object": "timespan", "start_time": 1700000000, "end_time": 1700003600},
		"participants": [
			{"name": "Ada", "email": "ada@example.com", "status": "yes"},
			{"email": "bob@example.com", "status": "noreply"}
		]
	}`, nil)
	require.NoError(t, err)

	event := Event{rec}
	assert.Equal(t, "Planning", event.Title())
	assert.True(t, event.Busy())
	assert.Equal(t, "timespan", event.When().Object())
	assert.Equal(t, time.Unix(1700003600, 0).UTC(), event.When().EndTime())

	participants := event.Participants()
	require.Len(t, participants, 2)
	assert.Equal(t, "Ada", participants[0].Name())
	assert.Equal(t, "noreply", participants[1].Status())
}

func TestEvent_DateTimespan(t *testing.T) {
	c := NewCatalog()
	rec, err := c.Event.FromJSON(map[string]any{
		"id":   "evt_2",
		"when": map[string]any{"object": "date", "date": "2024-03-09"},
	}, nil)
	require.NoError(t, err)

	when := Event{rec}.When()
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), when.Date())

	payload, err := rec.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", payload.(map[string]any)["when"].(map[string]any)["date"])
}

func TestMessage_UpdateLabels(t *testing.T) {
	var body map[string]any
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/messages/msg_1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"id":"msg_1","labels":[{"id":"lbl_1","name":"inbox"},{"id":"lbl_2","name":"important"}]}`)
	})

	rec, err := svc.Catalog().Message.FromJSON(map[string]any{"id": "msg_1"}, svc.exec)
	require.NoError(t, err)
	msg := Message{rec}

	label, err := svc.Catalog().Label.FromJSON(map[string]any{"id": "lbl_1"}, nil)
	require.NoError(t, err)

	require.NoError(t, msg.UpdateLabels(context.Background(), label, model.ID("lbl_2")))

	assert.Equal(t, map[string]any{"label_ids": []any{"lbl_1", "lbl_2"}}, body)
	labels := msg.Labels()
	require.Len(t, labels, 2)
	assert.Equal(t, "important", labels[1].Name())
}

func TestMessage_UpdateFolder(t *testing.T) {
	var body map[string]any
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"id":"msg_1","folder":{"id":"fld_9","name":"archive"}}`)
	})

	rec, err := svc.Catalog().Message.FromJSON(map[string]any{"id": "msg_1"}, svc.exec)
	require.NoError(t, err)
	msg := Message{rec}

	require.NoError(t, msg.UpdateFolder(context.Background(), model.ID("fld_9")))
	assert.Equal(t, map[string]any{"folder_id": "fld_9"}, body)
	assert.Equal(t, "archive", msg.Folder().Name())
}

func TestMessage_CannotBeCreatedOrDestroyed(t *testing.T) {
	var calls atomic.Int32
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := svc.Messages().Create(context.Background(), map[string]any{"subject": "hi"})
	assert.True(t, errors.Is(err, model.ErrNotCreatable))

	err = svc.Messages().Destroy(context.Background(), model.ID("msg_1"))
	assert.True(t, errors.Is(err, model.ErrNotDestroyable))

	assert.Zero(t, calls.Load())
}

func TestService_ListsAcrossPages(t *testing.T) {
	const total = 150
	var calls atomic.Int32
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("unread"))

		items := make([]string, 0, limit)
		for i := offset; i < min(offset+limit, total); i++ {
			items = append(items, fmt.Sprintf(`{"id":"msg_%d","subject":"Message %d","unread":true}`, i, i))
		}
		_, _ = io.WriteString(w, "["+strings.Join(items, ",")+"]")
	})

	unread, err := svc.Messages().Where(map[string]any{"unread": true})
	require.NoError(t, err)

	records, err := unread.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, total)
	assert.Equal(t, int32(2), calls.Load())
	assert.True(t, Message{records[149]}.Unread())
}

func TestService_CollectionLookup(t *testing.T) {
	svc := NewService(nil, nil)

	for _, name := range []string{"events", "Event", "event"} {
		c, err := svc.Collection(name)
		require.NoError(t, err, name)
		assert.Equal(t, ObjectEvent, c.Schema().Name())
	}

	_, err := svc.Collection("widgets")
	assert.True(t, errors.Is(err, ErrUnknownResource))
}

func TestService_Webhooks(t *testing.T) {
	svc := NewService(nil, nil)
	assert.Equal(t, "/a/app_1/webhooks", svc.Webhooks("app_1").Schema().Path())
	assert.Equal(t, "/webhooks", svc.Catalog().Webhook.Path())
}

func TestService_Account(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":"acc_1","email_address":"me@example.com","provider":"gmail","sync_state":"running"}`)
	})

	account, err := svc.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", account.GetString("email_address"))
}

func TestService_Files(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/files":
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "agenda.txt", header.Filename)
			_, _ = io.WriteString(w, `[{"id":"f_1","filename":"agenda.txt","content_type":"text/plain","size":5}]`)
		case r.URL.Path == "/files/f_1/download":
			_, _ = io.WriteString(w, "hello")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	file, err := svc.UploadFile(context.Background(), "agenda.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "f_1", file.ID())
	assert.Equal(t, 5, file.Size())

	data, err := svc.DownloadFile(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestService_SendDraft(t *testing.T) {
	var body map[string]any
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"id":"msg_5","object":"message","subject":"Hello","thread_id":"thr_1"}`)
	})

	rec, err := svc.Catalog().Draft.FromJSON(map[string]any{"id": "drf_1", "version": 3}, nil)
	require.NoError(t, err)

	msg, err := svc.Send(context.Background(), Draft{rec})
	require.NoError(t, err)
	assert.Equal(t, "thr_1", msg.ThreadID())
	assert.Equal(t, map[string]any{"draft_id": "drf_1", "version": float64(3)}, body)
}

func TestService_Deltas(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "c0":
			_, _ = io.WriteString(w, `{"cursor_start":"c0","cursor_end":"c1","deltas":[
				{"id":"thr_1","object":"thread","event":"modify","cursor":"c1",
				 "attributes":{"id":"thr_1","subject":"Re: plan","unread":true,"message_ids":["m1","m2"]}}]}`)
		default:
			_, _ = io.WriteString(w, `{"cursor_start":"c1","cursor_end":"c1","deltas":[]}`)
		}
	})

	var threads []Thread
	for d, err := range svc.Deltas().Since(context.Background(), "c0") {
		require.NoError(t, err)
		threads = append(threads, Thread{d.Record})
	}

	require.Len(t, threads, 1)
	assert.Equal(t, "Re: plan", threads[0].Subject())
	assert.Equal(t, []string{"m1", "m2"}, threads[0].MessageIDs())
}
