// Package models lists the OpenAI models available to an API key, grouped
// into the speech and chat models theni can use for audio and sentence
// generation.
package models
