package descriptor

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// parseDefault decodes a default tag into a value of type t. Input is weakly
// typed: "3" fills an int, "a,b" fills a []string, "5s" a time.Duration.
func parseDefault(raw string, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out.Interface(),
	})
	if err != nil {
		return reflect.Value{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return reflect.Value{}, err
	}
	return out.Elem(), nil
}
