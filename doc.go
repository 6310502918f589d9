// Package secuofx resolves the price of a list of securities on a given day
// and prepares them for export to an OFX file.
//
// The pipeline is:
//   - Classification: a raw identifier (Japanese stock code "7203.T", US
//     ticker "AAPL", Japanese mutual fund code "03311187" or ISIN) is turned
//     into a Security of a known Kind, see Classify.
//   - Retrieval: each Kind has a Chain of Adapters (a primary source, and for
//     mutual funds a scraping fallback). A RetryPolicy drives the chain with
//     bounded, exponentially backed-off retries.
//   - Orchestration: a Resolver runs every identifier independently and
//     returns one Result per identifier, in input order. Failures never abort
//     the batch, they are reported as FetchError.
//
// Encoding the successful quotes is the job of the ofx package, and rendering
// the per-identifier status report the job of the renderer package.
package secuofx
