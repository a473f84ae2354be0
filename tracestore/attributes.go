package tracestore

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	typeKey  = attribute.Key("store.type")
	keyKey   = attribute.Key("store.key")
	driveKey = attribute.Key("store.drive")
	countKey = attribute.Key("store.key_count")

	sizeKey      = attribute.Key("object.size")
	bytesReadKey = attribute.Key("object.bytes_read")
)

// The type of store being operated on.
//
// Type: string
// Required: No
// Examples: "*blobstore.blobStore", "*s3store.s3Store"
func Type(name string) attribute.KeyValue {
	return typeKey.String(name)
}

// The key of the object being operated on.
//
// Type: string
// Required: No
// Examples: ".air", "docs/report.pdf"
func Key(key string) attribute.KeyValue {
	return keyKey.String(key)
}

// The name of the drive being opened.
//
// Type: string
// Required: No
// Examples: "d1", "photos"
func Drive(name string) attribute.KeyValue {
	return driveKey.String(name)
}

// The number of keys listed or deleted.
//
// Type: int
// Required: No
// Examples: 3, 0
func KeyCount(n int) attribute.KeyValue {
	return countKey.Int(n)
}

// The size of an object written.
//
// Type: int
// Required: No
// Examples: 1024, 0
func Size(n int) attribute.KeyValue {
	return sizeKey.Int(n)
}

// The total number of bytes read from an object before it was closed.
//
// Type: int64
// Required: No
// Examples: 1024, 0
func BytesRead(n int64) attribute.KeyValue {
	return bytesReadKey.Int64(n)
}
