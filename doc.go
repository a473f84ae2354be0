// Package airdrive provides a drive-like client on top of flat blob stores
// such as AWS S3, Google Cloud Storage, Azure Blob Storage or a local
// directory.
//
// Blob stores have no notion of directories, so folders are emulated: a file
// in a folder is stored under the key "folder/name", and a folder exists when
// its marker object "folder/.air" exists. The same marker at the root of a
// drive proves that the drive exists.
//
// # Usage
//
// Drives are opened through an [Opener], normally a [StoreMux] with the
// stores of this module registered (see the autostore package). The
// credential is a store URL, and the drive name is used as the key prefix
// inside it:
//
//	d, err := airdrive.Create(ctx, autostore.Mux(), "s3://mybucket?region=eu-west-1", "photos")
//	if err != nil {
//		return err
//	}
//	defer d.Close()
//
//	err = d.Upload(ctx, airdrive.UploadInput{Name: "cat.jpg", Folder: "2024", LocalPath: "cat.jpg"})
//
// All operations are synchronous. Nothing is retried, and multi-key
// operations such as [Drive.Rename] and [Drive.DeleteAll] are not atomic.
package airdrive
