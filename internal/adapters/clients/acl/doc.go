// Package acl is the anti-corruption layer between the remote quote source
// and the domain.
//
// Remote records use their own shape ({"title": ...} on the way in,
// {"text", "category"} on the way out). Nothing outside this package sees
// those DTOs: [QuoteSource] translates records into [domain.Quote] values
// tagged with [domain.ServerCategory], and every failure (transport error,
// non-2xx status, undecodable body, open circuit) becomes a
// [domain.NetworkError].
//
// # Package Components
//
//   - [BaseAdapter]: embeddable request helpers with error mapping
//   - [MapHTTPError]: response and client error to domain error mapping
//   - [DecodeResponse]: generic JSON response decoder
//   - [TranslateSlice]: batch translation helper
//   - [QuoteSource]: the ports.QuoteSource implementation
package acl
