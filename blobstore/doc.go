// Package blobstore provides airdrive stores backed by Go CDK blob buckets:
// AWS S3, Google Cloud Storage, Azure Blob Storage, local directories and
// in-process memory.
//
// # Usage
//
// Call New with a store URL, or register Provider with an airdrive.StoreMux.
// The URL's host names the bucket, and its path is used as a key prefix, so
// several drives can share a bucket. The schemes "s3", "gs", "azblob",
// "file" and "mem" are supported.
//
// For "file" URLs the path is a local directory, created if necessary. The
// host of a "mem" URL names an in-process bucket, shared by all stores opened
// with that host for the life of the process.
//
// # Credentials
//
// Credentials are read from the environment the same way the Go CDK does.
// Additionally, AWS_S3_ENDPOINT, AWS_REGION (or AWS_DEFAULT_REGION) and
// AWS_ANON fill in the matching s3 URL parameters when they're absent, and
// GOOGLE_ANON=true opens gs buckets without credentials. Each of these can
// be given in a file named by the same variable with a _FILE suffix.
package blobstore
