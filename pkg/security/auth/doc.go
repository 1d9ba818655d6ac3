// Package auth gates bridged endpoints with API-key authentication.
//
// Keys arrive via the X-API-Key request header and are matched against the
// configured set using a comparison that does not leak timing information
// proportional to the mismatch position. An empty configured set disables
// authentication entirely; that state is announced at construction time so
// operators can tell it apart from a misconfiguration.
package auth
