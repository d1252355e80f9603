package forwardindex

import (
	"hash/fnv"

	"github.com/quiverdb/quiver/errs"
	"github.com/quiverdb/quiver/internal/pool"
	"github.com/quiverdb/quiver/internal/vbyte"
	"github.com/quiverdb/quiver/record"
)

// avgTermBytes informs the initial bucket-count heuristic: one term per
// roughly 5 bytes of document text, matching RediSearch's
// ForwardIndex sizing (totalChars / 5).
const avgTermBytes = 5

// Index accumulates one document's terms between OpenDocument and
// Commit. It is meant to be reused across documents: each OpenDocument
// call resets it for a new docId.
type Index struct {
	docID     record.DocID
	open      bool
	committed bool

	hits      map[string]*Entry
	maxFreq   uint32
	totalFreq uint32
}

// New returns an empty, unopened forward index.
func New() *Index {
	return &Index{hits: make(map[string]*Entry)}
}

// NewWithSizeHint returns an empty forward index whose term table is
// pre-sized for a document of roughly totalChars bytes.
func NewWithSizeHint(totalChars int) *Index {
	buckets := totalChars / avgTermBytes
	if buckets < 0 {
		buckets = 0
	}

	return &Index{hits: make(map[string]*Entry, buckets)}
}

// DocID returns the currently open document, valid only while Open
// reports true.
func (fi *Index) DocID() record.DocID { return fi.docID }

// Open reports whether a document is currently open (added to but not
// yet committed).
func (fi *Index) Open() bool { return fi.open }

// NumTerms returns the number of distinct terms accumulated so far.
func (fi *Index) NumTerms() int { return len(fi.hits) }

// MaxFreq returns the highest per-term frequency seen in the current
// document, used by callers that normalize frequencies to [0,1].
func (fi *Index) MaxFreq() uint32 { return fi.maxFreq }

// OpenDocument resets the index and begins accumulating terms for docID.
// Calling it again for the same docID while already open returns
// ErrDocumentAlreadyOpen; calling it for a different docID while the
// current one was never committed returns ErrDocumentNotCommitted.
func (fi *Index) OpenDocument(docID record.DocID) error {
	if fi.open {
		if docID == fi.docID {
			return errs.ErrDocumentAlreadyOpen
		}

		return errs.ErrDocumentNotCommitted
	}

	clear(fi.hits)
	fi.docID = docID
	fi.open = true
	fi.committed = false
	fi.maxFreq = 0
	fi.totalFreq = 0

	return nil
}

// AddTerm records one occurrence of term at position, in the fields
// named by fieldMask. Repeated calls with the same term accumulate
// frequency, field mask, and position.
func (fi *Index) AddTerm(term string, fieldMask record.FieldMask, position uint32) error {
	if !fi.open {
		return errs.ErrNoDocumentOpen
	}
	if term == "" {
		return errs.ErrEmptyTerm
	}

	h := fnv1a(term)
	fi.totalFreq++

	e, found := fi.hits[term]
	if !found {
		fi.hits[term] = newEntry(term, h, fieldMask, position)
		e = fi.hits[term]
	} else {
		e.addOccurrence(fieldMask, position)
	}

	if e.Freq > fi.maxFreq {
		fi.maxFreq = e.Freq
	}

	return nil
}

// SinkFunc receives one committed term entry for the document that was
// open when Commit was called.
type SinkFunc func(docID record.DocID, entry *Entry) error

// Commit hands every accumulated entry to sink, in unspecified order
// (callers needing per-term ordering sort beforehand), then closes the
// document. Returns the first error sink reports, if any; on error the
// document is left open so the caller can retry or discard it.
func (fi *Index) Commit(sink SinkFunc) error {
	if !fi.open {
		return errs.ErrNoDocumentOpen
	}

	for _, e := range fi.hits {
		if err := sink(fi.docID, e); err != nil {
			return err
		}
	}

	fi.committed = true
	fi.open = false

	return nil
}

// NormalizeFreq rescales e.Freq's contribution against maxFreq into a
// [0,1] weight, mirroring ForwardIndex_NormalizeFreq's quantization.
func (fi *Index) NormalizeFreq(e *Entry) float64 {
	if fi.maxFreq == 0 {
		return 0
	}

	return float64(e.Freq) / float64(fi.maxFreq)
}

func fnv1a(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))

	return h.Sum32()
}

// EncodePositions varint-packs e.Positions the same way the posting
// store encodes offset vectors, for handing to posting.Entry.Offsets.
func EncodePositions(e *Entry) []byte {
	buf := pool.NewByteBuffer(len(e.Positions) * 2)
	w := vbyte.NewWriter(buf)
	vw := vbyte.NewVectorWriter(w)
	for _, p := range e.Positions {
		vw.Write(p)
	}

	return append([]byte(nil), vw.Bytes()...)
}
