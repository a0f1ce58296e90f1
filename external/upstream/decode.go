package upstream

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// DecodeJSON unmarshals raw into target and enforces its validate tags. Every
// failure comes back as a *usecase.DecodeError carrying a JSON field path.
func DecodeJSON(raw []byte, contentType string, target any) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return &usecase.EmptyPayloadError{}
	}
	if !isJSONContentType(contentType) {
		return &usecase.DecodeError{FieldPath: "$", Cause: crerr.Newf("unexpected content type %q", contentType)}
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return &usecase.DecodeError{FieldPath: "$", Cause: crerr.Wrap(err, "unmarshal")}
	}
	return Validate(target, "")
}

// Validate checks validate tags on v. prefix replaces the root struct name in
// reported paths, e.g. "" yields games[0].id and "$" yields $.games[0].id.
// Top-level arrays report their index first: [2].bookmakers[0].title.
func Validate(v any, prefix string) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if err := Validate(rv.Index(i).Interface(), prefix+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		return nil
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !crerr.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &usecase.DecodeError{FieldPath: "$", Cause: err}
	}
	first := fieldErrs[0]
	return &usecase.DecodeError{
		FieldPath: fieldPath(first.Namespace(), prefix),
		Cause:     crerr.Newf("failed %q constraint", first.Tag()),
	}
}

func fieldPath(namespace, prefix string) string {
	path := namespace
	if idx := strings.IndexByte(namespace, '.'); idx >= 0 {
		path = namespace[idx+1:]
	}
	if prefix == "" {
		return path
	}
	if strings.HasPrefix(path, "[") {
		return prefix + path
	}
	return prefix + "." + path
}

// ParseTime parses an ISO-8601 timestamp, reporting path on failure.
func ParseTime(value, path string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z0700", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, &usecase.DecodeError{FieldPath: path, Cause: crerr.Newf("invalid timestamp %q", value)}
}

func isJSONContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" {
		return true
	}
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") || mediaType == "text/json"
}
