// Package services contains server-side business logic. DocumentService sits
// between the gRPC handlers and the document repository: it checks that the
// caller owns what it touches and that every payload decodes into a valid
// record before anything is stored.
package services
