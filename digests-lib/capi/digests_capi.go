// ABOUTME: C API wrapper for the Digests library to enable FFI usage
// ABOUTME: Provides C-compatible functions for use in native applications

package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"context"
	"encoding/json"
	"unsafe"

	digests "page-digest/digests-lib"
	"page-digest/infrastructure/dom"
)

// Global client instance
var client *digests.Client

type digestResponse struct {
	Text      string `json:"text,omitempty"`
	Mode      string `json:"mode,omitempty"`
	FromCache bool   `json:"fromCache,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

func respond(v interface{}) *C.char {
	data, err := json.Marshal(v)
	if err != nil {
		return C.CString(`{"error": "failed to marshal response"}`)
	}
	return C.CString(string(data))
}

func respondError(err error) *C.char {
	return respond(digestResponse{
		Kind:  string(digests.Kind(err)),
		Error: digests.Message(err),
	})
}

//export DigestsInit
func DigestsInit() C.int {
	var err error
	client, err = digests.NewClient()
	if err != nil {
		return -1
	}
	return 0
}

//export DigestsInitWithStorage
func DigestsInitWithStorage(storageType *C.char, storagePath *C.char) C.int {
	var err error

	var opt digests.Option
	if C.GoString(storageType) == "sqlite" {
		opt = digests.WithStorageOption(digests.StorageOption{
			Type:     digests.StorageTypeSQLite,
			FilePath: C.GoString(storagePath),
		})
	} else {
		opt = digests.WithStorageOption(digests.StorageOption{
			Type: digests.StorageTypeMemory,
		})
	}

	client, err = digests.NewClient(opt)
	if err != nil {
		return -1
	}
	return 0
}

//export DigestsClose
func DigestsClose() {
	if client != nil {
		client.Close()
		client = nil
	}
}

//export DigestsDigest
func DigestsDigest(host *C.char, html *C.char, mode *C.char) *C.char {
	if client == nil {
		return C.CString(`{"error": "client not initialized"}`)
	}

	doc, err := dom.ParseString(C.GoString(html))
	if err != nil {
		return respondError(err)
	}

	ctx := context.Background()
	session, err := client.Open(ctx, C.GoString(host), doc)
	if err != nil {
		return respondError(err)
	}

	result, err := session.RequestDigest(ctx, digests.Mode(C.GoString(mode)))
	if err != nil {
		return respondError(err)
	}

	return respond(digestResponse{
		Text:      result.Text,
		Mode:      string(result.Mode),
		FromCache: result.FromCache,
	})
}

//export DigestsUsage
func DigestsUsage() *C.char {
	if client == nil {
		return C.CString(`{"error": "client not initialized"}`)
	}
	return respond(client.Usage())
}

//export DigestsFreeString
func DigestsFreeString(str *C.char) {
	C.free(unsafe.Pointer(str))
}

// Required for building as shared library
func main() {}
