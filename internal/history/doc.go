// Package history records maintenance runs into a local SQLite database so
// operators can audit what past passes visited and how their plugins fared.
package history
