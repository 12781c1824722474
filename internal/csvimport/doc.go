// Package csvimport turns delimited observation files into trajectory
// graphs.
//
// Responsibilities:
//   - Extract key/value metadata from leading comment lines.
//   - Resolve the header row and guess a column-role mapping from it.
//   - Decode rows into spots through a RowDecoder (points or polygons),
//     skipping malformed rows with a warning.
//   - Bucket spots by frame and chain same-track spots into edges.
//   - Hand the finished project to a ProjectWriter.
//
// Key types: Importer, Options, ColumnMapping, RowDecoder, Result.
//
// Dependency rule: csvimport may import model, monitoring, fsutil,
// timeutil and version. Storage and rendering packages depend on model,
// never on csvimport internals.
package csvimport
