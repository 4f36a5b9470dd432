// Package metadata writes a JSON sidecar next to every saved photo.
//
// A photo saved as downloads/abc123.jpg gets downloads/abc123.jpg.json
// holding the photographer credit, the description and the source link,
// so the attribution survives after the search results are gone.
package metadata
