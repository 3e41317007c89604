// Package history stores run results in a SQLite database so repeated runs
// can be compared. The schema is created on Open.
package history
