package crafty

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"craftybot/internal/pkg/text"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

const snippetRunes = 200

const envelopeSchemaJSON = `{
  "type": "object",
  "required": ["status"],
  "properties": {
    "status": {"type": "string", "enum": ["ok", "error"]},
    "message": {"type": "string"},
    "error": {"type": "string"}
  }
}`

var envelopeSchema = mustCompileSchema("envelope.json", envelopeSchemaJSON)

func mustCompileSchema(name, raw string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("crafty: add schema %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("crafty: compile schema %s: %v", name, err))
	}
	return schema
}

// envelope is the common {status, data?, message?} wrapper of every endpoint.
type envelope struct {
	Status  string
	Code    string
	Message string
	Data    gjson.Result
}

func (e envelope) ok() bool { return e.Status == "ok" }

func parseEnvelope(body []byte) (envelope, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return envelope{}, errors.New("empty body")
	}
	if !gjson.ValidBytes(body) {
		return envelope{}, fmt.Errorf("body is not JSON: %s", snippet(body))
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return envelope{}, fmt.Errorf("decode body: %w", err)
	}
	if err := envelopeSchema.Validate(doc); err != nil {
		return envelope{}, fmt.Errorf("unexpected envelope: %v", err)
	}
	parsed := gjson.ParseBytes(body)
	env := envelope{
		Status: parsed.Get("status").String(),
		Code:   strings.TrimSpace(parsed.Get("error").String()),
		Data:   parsed.Get("data"),
	}
	for _, key := range []string{"message", "error_data", "error"} {
		if msg := strings.TrimSpace(parsed.Get(key).String()); msg != "" {
			env.Message = msg
			break
		}
	}
	return env, nil
}

// decodeData unmarshals the data member into out. A missing or null data
// member leaves out untouched unless required is set.
func decodeData(env envelope, out any, required bool) error {
	if !env.Data.Exists() || env.Data.Type == gjson.Null {
		if required {
			return errors.New("response has no data")
		}
		return nil
	}
	if err := json.Unmarshal([]byte(env.Data.Raw), out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// snippet is the head of a non-JSON body, cut on a rune boundary.
func snippet(body []byte) string {
	return text.Truncate(strings.TrimSpace(string(body)), snippetRunes)
}
