package fingerprint

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/baxen/bionic/bytecode"
	"github.com/baxen/bionic/diag"
	"github.com/baxen/bionic/refs"
)

// Entry framing tags. Each entry contributes tag, length, bytes, so
// two different lists can never fold to the same byte stream.
const (
	tagSymbol byte = 's'
	tagValue  byte = 'v'
)

var defaultRegistry = Default()

// Sum folds a reference list into a 64-bit fingerprint using reg
// (nil means the built-in protocols). It is strict: an unsupported
// resolved value fails the whole sum.
func Sum(list refs.References, reg *Registry) (uint64, error) {
	if reg == nil {
		reg = defaultRegistry
	}
	d := xxhash.New()
	for _, r := range list {
		switch ref := r.(type) {
		case refs.Symbol:
			writeEntry(d, tagSymbol, []byte(ref))
		case refs.Resolved:
			tok, err := tokenize(reg, ref.Value)
			if err != nil {
				return 0, err
			}
			writeEntry(d, tagValue, tok)
		}
	}
	return d.Sum64(), nil
}

// tokenize runs the registry behind a failure boundary: a registered
// protocol that panics surfaces as an error, the same containment the
// walker gives a panicking attribute resolver.
func tokenize(reg *Registry, v any) (tok []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic tokenizing %T: %v", v, r)
		}
	}()
	return reg.Tokenize(v)
}

// Fingerprint is the full pipeline for one callable: context, walk,
// fold. Only the context builder's contract violation is fatal. A
// resolved value no protocol supports degrades to its symbolic
// rendering with a diagnostic, mirroring how the walker treats a
// failed lookup: precision drops, the pipeline survives.
func Fingerprint(fn *bytecode.Func, reg *Registry, sink diag.Sink) (uint64, error) {
	if reg == nil {
		reg = defaultRegistry
	}
	if sink == nil {
		sink = diag.Nop()
	}

	list, err := refs.FuncReferences(fn, refs.WithSink(sink))
	if err != nil {
		return 0, err
	}

	d := xxhash.New()
	for _, r := range list {
		switch ref := r.(type) {
		case refs.Symbol:
			writeEntry(d, tagSymbol, []byte(ref))
		case refs.Resolved:
			tok, tokErr := tokenize(reg, ref.Value)
			if tokErr != nil {
				sink.Report(diag.Diagnostic{
					Func: fn.Code.Name,
					File: fn.Code.File,
					Err:  tokErr,
				})
				tok = typeToken(ref.Value)
			}
			writeEntry(d, tagValue, tok)
		}
	}
	return d.Sum64(), nil
}

// typeToken is the degraded stand-in for an untokenizable value: the
// type name still changes the fingerprint when the reference's type
// changes, even though its value no longer does.
func typeToken(v any) []byte {
	return []byte(fmt.Sprintf("opaque:%T", v))
}

func writeEntry(d *xxhash.Digest, tag byte, b []byte) {
	// xxhash.Digest.Write never returns an error.
	_, _ = d.Write([]byte{tag})
	_, _ = d.Write(binary.AppendUvarint(nil, uint64(len(b))))
	_, _ = d.Write(b)
}
