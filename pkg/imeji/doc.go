// Package imeji is a client for the REST API of imeji, a digital asset
// management service.
//
// # Overview
//
// The service exposes four kinds of resources below a /rest prefix:
//
//   - collections  /rest/collections[/{id}]
//   - items        /rest/items[/{id}]
//   - albums       /rest/albums[/{id}]
//   - profiles     /rest/profiles[/{id}]
//
// Every resource is a JSON document. A Resource wraps that document, keeps
// track of local changes and writes them back with Save, which creates the
// resource when it has no id yet and updates it otherwise.
//
// # Usage
//
//	client, err := imeji.New(ctx, imeji.Options{
//	  ServiceURL: "http://localhost:8080/imeji",
//	  User:       "admin",
//	  Password:   os.Getenv("IMEJI_PASSWORD"),
//	})
//
//	refs, err := client.Collections(ctx, imeji.Params{"q": "Research", "size": 10})
//	collection, err := client.Collection(ctx, refs.IDs()[0])
//	collection.Set("title", "New title")
//	saved, err := imeji.Save(ctx, collection)
//
//	item, err := saved.AddItem(ctx, imeji.Fields{"_file": "/tmp/photo.png"})
//
// Kind names can also be resolved at runtime with Client.Dispatch, which
// accepts "collections" (list) as well as "collection" (fetch).
//
// # Field rules
//
//   - id, createdBy, modifiedBy, createdDate and modifiedDate are read-only.
//   - Fields ending in "Date" are returned by Get as time.Time.
//   - A collection's profile may be set to a profile id or *Profile and is
//     stored as {"profileId": id, "method": "copy"}.
//   - An item's "_file" pseudo field attaches a local file, which is
//     uploaded as multipart form data on the next save.
//
// # Private mode
//
// An imeji instance in private mode refuses release and discard with
// 405 Method Not Allowed. A client created with Options.Restricted treats
// that answer as success.
//
// # Pagination
//
// List responses carry totalNumberOfResults, numberOfResults, offset and
// size. The client keeps the values of the last paginated response, see
// Client.Pagination.
package imeji
