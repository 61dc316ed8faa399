// Package rpc declares the Documents gRPC service shared by client and
// server: request and response messages, the service descriptor, a typed
// client, and the JSON codec the messages travel in.
//
// Messages are plain Go structs encoded as JSON, registered with grpc under
// the "json" content subtype. The client selects it per call, so no
// generated protobuf code is involved.
package rpc
