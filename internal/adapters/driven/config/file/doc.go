// Package file provides the TOML configuration store.
//
// Settings live in ~/.vanilla/config.toml as nested tables:
//
//	[api]
//	base_url = "https://forum.example.com"
//
//	[upload.azblob]
//	container = "uploads"
//
// and are addressed with dot keys such as "upload.azblob.container".
package file
