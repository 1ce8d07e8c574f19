// Package packager zips a staging tree, uploads the archive to a paste host
// and builds the Overleaf import link for it.
package packager
