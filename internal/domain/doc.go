// Package domain models New Year's levee records and the rules that turn one
// record into a fragment of each published artifact.
//
// # Data Source
//
// Levees are kept in a single relational table (one row per host organization).
// The table is maintained by hand; the publisher only reads rows with
// active = true, ordered by start date, then end date, then name.
//
// # Conventions
//
// Date-times:
//
//	Stored as text, usually "2006-01-02 15:04:05" with no zone offset.
//	A value without an offset is local time in the configured zone
//	(America/Halifax by default), never UTC. Values that carry an explicit
//	RFC 3339 offset are honoured and then shown in the configured zone.
//
// Coordinates:
//
//	WGS-84 decimal degrees kept as exact decimals, so "46.2382" is rendered as
//	46.2382 in every artifact. GeoJSON positions are [longitude, latitude];
//	everything else reads latitude first.
//
// Flags:
//
//	cancelled removes a levee from the structured data, both GeoJSON
//	collections and the calendar, but the HTML listing keeps it and marks it.
//	inRegionOfInterest only gates the regional GeoJSON collection.
//
// # Streams
//
// Each artifact is a stream with its own inclusion predicate and its own
// 1-based counter (see [Streams] and [Indexer]). A record that is skipped by
// one stream does not consume an index in it.
package domain
