package transact

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode encodes snapshots with Core Deterministic Encoding. Floats use the shortest encoding that preserves their value, so snapshots restore bit exact values.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transact: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("transact: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v deterministically, the same value always produces the same bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes data into v. Maps decode as map[string]any.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
