// Package generator asks a language model for a word pair and a sentence.
//
// A Generator returns the model's raw reply. Replies are untrusted: Parse
// turns them into a Suggestion only when they have exactly the three
// pipe-delimited fields "word1 | word2 | sentence", and callers still have
// to check the words against the picture library before showing them.
package generator
