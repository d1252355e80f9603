// Package forwardindex builds the per-document term table an indexer
// fills in while tokenizing one document, then drains once into the
// term-keyed posting lists on commit. Grounded on RediSearch's
// ForwardIndex (src/forward_index.c/.h): one forward index instance per
// document, reset between documents, with position vectors accumulated
// per term and handed to the posting writer on commit.
package forwardindex
