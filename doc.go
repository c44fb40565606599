// Package gridconv converts tables between textual formats.
//
// Every format is read into a [Grid], an ordered list of rows of string cells
// whose first row is the header, and written back out from one. The central
// entry points are [Parse], [Generate], [Write] and [Convert], which accept a
// [Format] id:
//
//	g, err := gridconv.Parse(text, gridconv.CSV)
//	fmt.Print(gridconv.Generate(gridconv.Markdown, g))
//
// # Formats
//
//   - [CSV]: quote-aware comma-separated values
//   - [TSV]: tab-separated values, no quoting
//   - [JSON]: an array of flat objects
//   - [HTML]: the first <table> of a document
//   - [Markdown]: GitHub-flavored pipe tables
//   - [XML]: repeated <row> or <record> elements
//   - [YAML]: a list of flat mappings
//   - [SQL]: INSERT INTO ... VALUES statements
//   - [LaTeX]: a tabular environment
//   - [ASCII]: bordered text tables
//   - [Excel]: CONCATENATE formulas, one per row
//
// [Infos] lists the registry with display labels, file extensions and MIME
// types. [ParseFormat] converts a flag value into a Format and
// [ForFilename] detects one from a file name.
//
// # Errors
//
// [Parse] never returns a partial grid. Whitespace-only text is an empty grid
// and not an error. Text that does not match its format yields a
// [*ParseError], which matches [ErrMalformed]. Unknown format ids are treated
// as CSV by Parse, Generate and Write; only [ParseFormat] reports
// [ErrUnsupportedFormat].
//
// Generation is total: [Generate] renders any grid, padding ragged rows to the
// widest row. Empty grids render as an empty string, or as the smallest valid
// document for JSON, YAML, HTML and XML.
//
// # Numbers
//
// A cell is numeric when the whole trimmed value is a finite decimal number
// (see [ParseNumber]). JSON writes numeric cells as numbers, SQL leaves them
// unquoted, and text tables right-align columns made of them.
//
// # Editing
//
// Grid methods such as [Grid.InsertRow], [Grid.DeleteColumn], [Grid.SetCell]
// and [Grid.Sort] return a new grid and leave the receiver untouched. The
// header row and the last remaining column cannot be deleted; both refusals
// match [ErrCannotDelete].
package gridconv
