// Package repositories provides persistence layer implementations for all model types.
//
// ArtistRepository implements models.Repository[*models.Artist]; the ledger,
// DNS cache and release cache are upsert-by-key stores that are safe under
// concurrent writers because each writer owns a disjoint key.
package repositories
