// Package resolve locates the embedded engine's callable entry point.
//
// Resolution runs in two stages. The Resolver walks an ordered candidate list
// of registry module names (explicit override first, then conventional
// fallbacks) and returns the first module that loads. The Locator then
// extracts a usable http.Handler from the loaded module by trying an ordered
// list of named strategies: explicit target, default target, well-known
// targets, attribute scan, and factory invocation.
//
// Each strategy is a pure probe over the module; no control-flow exceptions
// and no state is retained from failed attempts. When everything fails, the
// returned error names every candidate or strategy tried, in order, to aid
// operator diagnosis.
package resolve
