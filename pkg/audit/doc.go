// Package audit records one row per bridged call in a local SQLite
// database. Writes are asynchronous: request handlers enqueue entries on a
// bounded buffer and a background worker drains it, so a slow or locked
// database never blocks dispatch. When the buffer is full the entry is
// dropped and counted.
package audit
