// Package qdrant implements vector.Index against a Qdrant server using the
// official Go client over gRPC.
package qdrant
