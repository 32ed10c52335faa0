// Package api defines the tripsplit RPC surface: request and response messages plus
// Connect handlers and clients for each service.
//
// Messages are plain Go structs carried by a JSON codec, so any Connect client (or curl
// with Content-Type: application/json) can call the services.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// CodecName is registered under the name Connect uses for application/json.
const CodecName = "json"

// Codec marshals plain Go messages as JSON.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
