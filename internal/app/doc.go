// Package app wires the components together. It turns a Config into the
// running practice server and implements the one-shot commands (check,
// export, fetch-images) on top of the same vocabulary loader.
package app
