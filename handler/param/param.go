package param

import (
	"encoding/json"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/schema"
	"github.com/twitchtv/twirp"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("json")
}

// Binding decode the json body into v and validate its `valid` tags
func Binding(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return twirp.InvalidArgumentError("body", err.Error())
	}

	return validate(v)
}

// BindQuery decode the url query into v and validate its `valid` tags
func BindQuery(r *http.Request, v interface{}) error {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return twirp.InvalidArgumentError("query", err.Error())
	}

	return validate(v)
}

func validate(v interface{}) error {
	if _, err := govalidator.ValidateStruct(v); err != nil {
		return twirp.InvalidArgumentError("params", err.Error())
	}

	return nil
}
