package forms

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-playground/form/v4"

	"github.com/user/tareas-go/apperror"
)

const maxFormBytes = 1 << 20

// decoder fills form structs from url.Values by their `form` tag. It caches struct metadata
// and is safe for concurrent use.
var decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("form")
	d.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		return len(vals) > 0 && checked(vals[0]), nil
	}, false)
	return d
}

// Bind fills dst (a pointer to a form struct) from the request body.
// JSON bodies are decoded directly; everything else is read as an HTML form post.
func Bind(r *http.Request, dst Form) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxFormBytes))
		if err := dec.Decode(dst); err != nil {
			return apperror.NewBadRequestError("invalid request body", err)
		}
		return nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxFormBytes)
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return apperror.NewBadRequestError("invalid form submission", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return apperror.NewBadRequestError("invalid form submission", err)
	}

	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return apperror.NewBadRequestError("invalid form submission", err)
	}
	return nil
}

// checked follows HTML checkbox semantics: an absent box or an explicit "false" is unchecked,
// any other submitted value ("on", "y", "1", ...) is checked.
func checked(raw string) bool {
	return raw != "" && raw != "false"
}
