package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/store"
)

// docMaxSize caps one stored document. A quote with its full version
// history is the largest document written.
const docMaxSize = 16 << 20

// Setup programmatically creates/ensures the catalog_products,
// catalog_clients and catalog_quotes collections used by store.RecordStore.
func Setup(app *pocketbase.PocketBase) {
	for _, name := range []string{
		store.ProductsCollection,
		store.ClientsCollection,
		store.QuotesCollection,
	} {
		ensureCollection(app, name, documentFields)
	}
}

// documentFields declares the shape shared by every document collection:
// the entity id, its position in the collection and the JSON document.
func documentFields(c *core.Collection) {
	c.Fields.Add(&core.TextField{Name: "key", Required: false})
	c.Fields.Add(&core.NumberField{Name: "position", Required: false, OnlyInt: true})
	c.Fields.Add(&core.JSONField{Name: "doc", Required: true, MaxSize: docMaxSize})
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	c.AddIndex("idx_"+c.Name+"_key", false, "`key`", "")
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
