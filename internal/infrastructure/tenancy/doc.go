// Package tenancy routes requests to the data store of their society.
//
// Every society has its own database, described by a descriptor in the
// master registry. The Router opens one pooled connection per society on
// first use, migrates the fixed tenant schema into it and keeps it for the
// life of the process. Concurrent first resolutions of a society, through
// any of its aliases, result in a single open.
package tenancy
