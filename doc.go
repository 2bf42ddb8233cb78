// Package shelf is the composition root of the shelf keyed collection store.
//
// A shelf keeps named collections of JSON records (namespaces) on top of a
// plain key-value medium. Each namespace is stored as one JSON array under
// its own key; every operation reads the whole array, changes it and writes
// it back. The core has no knowledge of where bytes live: media for memory,
// files (optionally versioned with git) and SQLite are provided.
//
// Features:
//
//   - **Collections**: List, Get, Save (insert or replace by id), Update and Delete.
//   - **Serialized writes**: concurrent Saves on one namespace never lose records.
//   - **Favorites**: toggle markers keyed by entity type and id.
//   - **Documents**: single-object namespaces merged over defaults.
//   - **Cache**: TTL entries for data fetched from elsewhere.
//   - **Snapshots**: export, import and clear namespaces by glob.
//   - **Watch**: change events for local writes and external file edits.
//   - **Typed access**: generic Collection[T] and Document[T] wrappers.
//
// Usage:
//
//	store, err := shelf.New("./data",
//		shelf.WithAutoInit(true),
//		shelf.WithLogger(logger),
//	)
//
//	teams := shelf.NewCollection[Team](store, "teams")
//	saved, err := teams.Save(ctx, Team{Name: "Furia"})
package shelf
