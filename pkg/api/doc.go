// Package api executes requests against the email/calendar REST service and
// maps responses onto a typed error taxonomy.
//
// # Overview
//
// Client.Execute builds one HTTP request (authentication, JSON or multipart
// body, flattened query string), blocks until the response arrives or the
// configured timeout expires, and returns the decoded JSON body. It never
// retries; callers own retry policy.
//
// # Authentication
//
// Either an API key, sent as the HTTP basic auth user name, or a bearer
// token obtained from an oauth2.TokenSource:
//
//	client, err := api.NewClient(&api.Config{
//		BaseURL:     "https://api.nylas.com",
//		AccessToken: os.Getenv("NYLAS_ACCESS_TOKEN"),
//		Timeout:     30 * time.Second,
//	})
//
// # Error Handling
//
// Non-2xx responses become *Error values whose kind is matched with
// errors.Is:
//
//	400 ErrInvalidRequest        429 ErrSendingQuotaExceeded
//	402 ErrMessageRejected       500 ErrInternalError
//	403 ErrAccessDenied          502 ErrBadGateway
//	404 ErrResourceNotFound      503 ErrServiceUnavailable
//	422 ErrMailProviderError     other >= 400: ErrAPI
//
// Transport failures are *TimeoutError (ErrTimeout) or *TransportError
// (ErrTransport). A 2xx body that is not valid JSON is a *ParseError
// (ErrJSONParse).
//
// # Query Encoding
//
// Query values are flattened: lists repeat the key (in=a&in=b), maps nest
// with brackets (metadata[key]=v), booleans encode as true/false and
// time.Time values as epoch seconds.
package api
