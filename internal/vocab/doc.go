// Package vocab reconciles a vocabulary list with an image directory.
//
// A word is usable in a practice session only when it appears in the
// vocabulary source and has a picture in the images folder. Both sides are
// normalized the same way (trimmed, lower-cased, image extension stripped)
// before the intersection is computed, so "Ear" in a spreadsheet matches
// "ear.PNG" on disk.
//
// An unreadable or empty vocabulary source is not fatal: the fixed fallback
// list is used instead and a warning is recorded on the resulting Library.
// A missing image directory is fatal and reported as ErrImageDirMissing.
package vocab
