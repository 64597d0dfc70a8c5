package api

import (
	"fmt"
	"io"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// JSON is the codec used for request and response bodies. Numbers decode
// as json.Number so integer ids and timestamps keep their precision.
var JSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Request describes one call against the service.
type Request struct {
	Method string
	Path   string

	// Query values are flattened with EncodeQuery.
	Query map[string]any

	// Payload is encoded as the JSON body. Ignored when Upload is set.
	Payload any

	Headers map[string]string

	Upload *Upload
}

// Upload is a multipart file part sent instead of a JSON body.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader

	// Fields are extra form fields written before the file part.
	Fields map[string]string
}

// EncodeQuery flattens query values into a URL query string. Keys are
// sorted. Nil values are skipped.
func EncodeQuery(query map[string]any) string {
	values := url.Values{}
	for key, value := range query {
		flatten(values, key, value)
	}
	return values.Encode()
}

func flatten(values url.Values, key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		values.Add(key, v)
	case bool:
		values.Add(key, strconv.FormatBool(v))
	case time.Time:
		values.Add(key, strconv.FormatInt(v.Unix(), 10))
	case *time.Time:
		if v != nil {
			values.Add(key, strconv.FormatInt(v.Unix(), 10))
		}
	case fmt.Stringer:
		values.Add(key, v.String())
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(values, key+"["+k+"]", v[k])
		}
	case map[string]string:
		for k, s := range v {
			values.Add(key+"["+k+"]", s)
		}
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				flatten(values, key, rv.Index(i).Interface())
			}
			return
		}
		values.Add(key, fmt.Sprint(value))
	}
}
