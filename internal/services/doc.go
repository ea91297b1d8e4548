// Package services contains the catalog API clients.
//
// Deezer is the primary source: artist search, full release catalogs, album
// details and tracklists. iTunes is the enrichment source: term search and
// id lookup only. Both clients share one [http.Client] so the hostname
// resolver installed on its transport covers every outbound call, and both
// wrap requests in a [rate.Limiter] sized to the service's documented caps.
package services
