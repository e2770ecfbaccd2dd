package core

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// DecodeDocument decodes a schemaless store document into a typed struct.
// Store implementations normalize values first (string ids, time.Time
// datetimes); this handles the rest, including RFC3339 strings and types
// with encoding.TextUnmarshaler (roles).
func DecodeDocument(src map[string]interface{}, dst interface{}) error {
	return decode(src, dst)
}

// DecodeDocuments decodes a list of documents into dst, a *[]T.
func DecodeDocuments(src []map[string]interface{}, dst interface{}) error {
	return decode(src, dst)
}

func decode(src, dst interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result: dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(src)
}
