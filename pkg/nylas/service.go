package nylas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/iancoleman/strcase"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/collection"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
)

// ErrUnknownResource is returned by Collection for names with no schema.
var ErrUnknownResource = errors.New("unknown resource")

// Downloader is implemented by executors that can fetch raw file content.
// *api.Client implements it.
type Downloader interface {
	Download(ctx context.Context, req api.Request) ([]byte, error)
}

// Service binds the catalog to one executor, normally an *api.Client
// authenticated for a single account.
type Service struct {
	catalog *Catalog
	exec    model.Executor
	logger  hclog.Logger
}

// NewService returns a service over exec. logger may be nil.
func NewService(exec model.Executor, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{
		catalog: NewCatalog(),
		exec:    exec,
		logger:  logger.Named("nylas"),
	}
}

// Catalog returns the schemas the service uses.
func (s *Service) Catalog() *Catalog { return s.catalog }

func (s *Service) collection(schema *model.Schema) *collection.Collection {
	return collection.New(schema, s.exec, collection.WithLogger(s.logger))
}

func (s *Service) Calendars() *collection.Collection { return s.collection(s.catalog.Calendar) }
func (s *Service) Events() *collection.Collection    { return s.collection(s.catalog.Event) }
func (s *Service) Messages() *collection.Collection  { return s.collection(s.catalog.Message) }
func (s *Service) Drafts() *collection.Collection    { return s.collection(s.catalog.Draft) }
func (s *Service) Threads() *collection.Collection   { return s.collection(s.catalog.Thread) }
func (s *Service) Labels() *collection.Collection    { return s.collection(s.catalog.Label) }
func (s *Service) Folders() *collection.Collection   { return s.collection(s.catalog.Folder) }
func (s *Service) Contacts() *collection.Collection  { return s.collection(s.catalog.Contact) }
func (s *Service) Files() *collection.Collection     { return s.collection(s.catalog.File) }

// Webhooks returns the webhooks of an application. Webhook endpoints are
// scoped by client id rather than by account.
func (s *Service) Webhooks(clientID string) *collection.Collection {
	schema := s.catalog.Webhook.Inherit(ObjectWebhook, model.WithPath("/a/"+clientID+"/webhooks"))
	return s.collection(schema)
}

// Collection looks a resource up by name. "events", "Event" and "event"
// all resolve to the event collection.
func (s *Service) Collection(name string) (*collection.Collection, error) {
	key := strings.TrimSuffix(strcase.ToSnake(strings.TrimSpace(name)), "s")
	for _, schema := range s.catalog.Schemas() {
		if schema.Name() == key {
			return s.collection(schema), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
}

// Deltas returns the change feed for the account.
func (s *Service) Deltas(opts ...collection.FeedOption) *collection.Feed {
	opts = append([]collection.FeedOption{collection.WithFeedLogger(s.logger)}, opts...)
	return collection.NewFeed(s.exec, s.catalog.Schemas(), opts...)
}

// Account returns the account the credentials belong to.
func (s *Service) Account(ctx context.Context) (*model.Record, error) {
	resp, err := s.exec.Execute(ctx, api.Request{
		Method: http.MethodGet,
		Path:   s.catalog.Account.Path(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return s.catalog.Account.FromJSON(resp, s.exec)
}

// UploadFile stores content as a file that drafts can attach.
func (s *Service) UploadFile(ctx context.Context, filename, contentType string, content io.Reader) (File, error) {
	resp, err := s.exec.Execute(ctx, api.Request{
		Method: http.MethodPost,
		Path:   s.catalog.File.Path(),
		Upload: &api.Upload{
			Field:       "file",
			Filename:    filename,
			ContentType: contentType,
			Content:     content,
		},
	})
	if err != nil {
		return File{}, fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	items, ok := resp.([]any)
	if !ok || len(items) == 0 {
		return File{}, fmt.Errorf("%w: upload returned no file", api.ErrUnexpectedResponse)
	}
	rec, err := s.catalog.File.FromJSON(items[0], s.exec)
	if err != nil {
		return File{}, err
	}
	return File{rec}, nil
}

// DownloadFile returns the content of a file.
func (s *Service) DownloadFile(ctx context.Context, file model.HasIdentity) ([]byte, error) {
	d, ok := s.exec.(Downloader)
	if !ok {
		return nil, fmt.Errorf("executor %T cannot download files", s.exec)
	}
	ids := model.IDs(file)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: %w", ObjectFile, model.ErrMissingID)
	}
	return d.Download(ctx, api.Request{
		Method: http.MethodGet,
		Path:   s.catalog.File.ResourcePath(ids[0]) + "/download",
	})
}

// Send sends a draft, or a message given directly as attributes when the
// draft has no id.
func (s *Service) Send(ctx context.Context, draft Draft) (Message, error) {
	var payload map[string]any
	if id := draft.ID(); id != "" {
		payload = map[string]any{"draft_id": id, "version": draft.Version()}
	} else {
		var err error
		payload, err = draft.Payload(model.OpCreate)
		if err != nil {
			return Message{}, err
		}
	}

	resp, err := s.exec.Execute(ctx, api.Request{
		Method:  http.MethodPost,
		Path:    "/send",
		Payload: payload,
	})
	if err != nil {
		return Message{}, fmt.Errorf("failed to send: %w", err)
	}
	rec, err := s.catalog.Message.FromJSON(resp, s.exec)
	if err != nil {
		return Message{}, err
	}
	return Message{rec}, nil
}
